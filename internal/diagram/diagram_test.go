package diagram_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/blocksim/internal/block"
	"github.com/san-kum/blocksim/internal/diagram"
	"github.com/san-kum/blocksim/internal/signal"
)

var _ = Describe("New", func() {
	It("rejects nil blocks", func() {
		_, err := diagram.New([]block.Block{block.NewZero("Z", "u", "y"), nil}, nil, nil)
		Expect(err).To(MatchError(diagram.ErrInvalidBlock))

		var lti *block.LTI
		Expect(func() {
			_, err = diagram.New([]block.Block{lti}, nil, nil)
		}).NotTo(Panic())
		Expect(err).To(MatchError(diagram.ErrInvalidBlock))
	})

	It("rejects junction terms without a sign", func() {
		sums := []diagram.Sum{
			{Output: "e", Terms: []string{"+ysp", "ym"}},
		}
		_, err := diagram.New(nil, sums, nil)
		Expect(err).To(MatchError(diagram.ErrMissingSign))

		var signErr *diagram.SignError
		Expect(errors.As(err, &signErr)).To(BeTrue())
		Expect(signErr.Sum).To(Equal("e"))
		Expect(signErr.Term).To(Equal("ym"))
		Expect(err.Error()).To(ContainSubstring("no sign for 'ym'"))
	})

	It("rejects empty junction terms", func() {
		_, err := diagram.New(nil, []diagram.Sum{{Output: "e", Terms: []string{""}}}, nil)
		Expect(err).To(MatchError(diagram.ErrMissingSign))
	})

	It("seeds the signal table from the wiring", func() {
		g, err := block.NewLTI("G", "u", "y", []float64{1}, []float64{1, 1}, 0)
		Expect(err).NotTo(HaveOccurred())

		d, err := diagram.New([]block.Block{g}, []diagram.Sum{{Output: "u", Terms: []string{"+r", "-y"}}}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Signals().Names()).To(Equal([]string{"u", "y"}))
	})

	It("renders one line per block", func() {
		d, err := diagram.New([]block.Block{
			block.NewZero("A", "u", "v"),
			block.NewZero("B", "v", "w"),
		}, nil, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(d.String()).To(Equal("Zero: u →[ A ]→ v\nZero: v →[ B ]→ w"))
	})
})

var _ = Describe("Step", func() {
	It("evaluates junctions before blocks so feedback lags one tick", func() {
		k := block.NewAlgebraicEquation("K", "e", "b", block.Gain(1))
		d, err := diagram.New(
			[]block.Block{k},
			[]diagram.Sum{{Output: "e", Terms: []string{"+r", "-b"}}},
			[]diagram.Input{{Signal: "r", Func: signal.Step(0, 0, 1)}},
		)
		Expect(err).NotTo(HaveOccurred())

		want := []float64{1, 0, 1, 0}
		for i, w := range want {
			s, err := d.Step(float64(i), 1)
			Expect(err).NotTo(HaveOccurred())
			b, ok := s.Get("b")
			Expect(ok).To(BeTrue())
			Expect(b).To(Equal(w), "tick %d", i)
		}
	})

	It("reads junction outputs computed earlier in the same tick", func() {
		k := block.NewAlgebraicEquation("K", "e", "b", block.Gain(2))
		d, err := diagram.New(
			[]block.Block{k},
			[]diagram.Sum{
				{Output: "a", Terms: []string{"+r", "+r"}},
				{Output: "e", Terms: []string{"+a", "-r"}},
			},
			[]diagram.Input{{Signal: "r", Func: signal.Constant(3)}},
		)
		Expect(err).NotTo(HaveOccurred())

		s, err := d.Step(0, 0.1)
		Expect(err).NotTo(HaveOccurred())
		b, ok := s.Get("b")
		Expect(ok).To(BeTrue())
		Expect(b).To(Equal(6.0))
	})

	It("reports dangling junction references", func() {
		d, err := diagram.New(nil, []diagram.Sum{{Output: "e", Terms: []string{"+missing"}}}, nil)
		Expect(err).NotTo(HaveOccurred())

		_, err = d.Step(0, 0.1)
		Expect(err).To(MatchError(diagram.ErrUnknownSignal))

		var unknown *diagram.UnknownSignalError
		Expect(errors.As(err, &unknown)).To(BeTrue())
		Expect(unknown.Signal).To(Equal("missing"))
	})

	It("zeroes every signal on reset", func() {
		d, err := diagram.New(
			[]block.Block{block.NewAlgebraicEquation("K", "r", "y", block.Gain(1))},
			nil,
			[]diagram.Input{{Signal: "r", Func: signal.Constant(2)}},
		)
		Expect(err).NotTo(HaveOccurred())

		_, err = d.Step(0, 1)
		Expect(err).NotTo(HaveOccurred())
		y, _ := d.Signals().Get("y")
		Expect(y).To(Equal(2.0))

		d.Reset()
		for _, name := range []string{"y", "r"} {
			v, ok := d.Signals().Get(name)
			Expect(ok).To(BeTrue())
			Expect(v).To(BeZero(), name)
		}
	})

	It("stops when a block state diverges", func() {
		g, err := block.NewLTI("G", "u", "y", []float64{1}, []float64{1, 0}, 0)
		Expect(err).NotTo(HaveOccurred())
		d, err := diagram.New(
			[]block.Block{g},
			nil,
			[]diagram.Input{{Signal: "u", Func: signal.Constant(math.Inf(1))}},
		)
		Expect(err).NotTo(HaveOccurred())

		_, err = d.Simulate(diagram.Timestamps(0, 1, 10))
		Expect(err).To(MatchError(diagram.ErrDiverged))

		var div *diagram.DivergenceError
		Expect(errors.As(err, &div)).To(BeTrue())
		Expect(div.Block).To(Equal("G"))
		Expect(math.IsInf(div.Norm, 1)).To(BeTrue())

		var sim *diagram.SimulationError
		Expect(errors.As(err, &sim)).To(BeTrue())
		Expect(sim.Step).To(BeZero())
	})
})
