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

type tickCounter struct {
	ticks []int
	total int
}

func (c *tickCounter) OnTick(step, total int, t float64) {
	c.ticks = append(c.ticks, step)
	c.total = total
}

func openLoop(b block.Block, in signal.Func) *diagram.Diagram {
	d, err := diagram.New(
		[]block.Block{b},
		nil,
		[]diagram.Input{{Signal: b.Input(), Func: in}},
	)
	Expect(err).NotTo(HaveOccurred())
	return d
}

var _ = Describe("Simulate", func() {
	ts := diagram.Timestamps(0, 10, 100)

	It("requires at least two timestamps", func() {
		d := openLoop(block.NewZero("Z", "u", "y"), signal.Zero)
		_, err := d.Simulate([]float64{0})
		Expect(err).To(MatchError(diagram.ErrTooFewTimestamps))
	})

	It("records one sample per timestamp for every signal", func() {
		d := openLoop(block.NewZero("Z", "u", "y"), signal.Zero)
		res, err := d.Simulate(ts)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Times).To(Equal(ts))
		Expect(res.Names).To(Equal([]string{"u", "y"}))
		for _, name := range res.Names {
			Expect(res.Series[name]).To(HaveLen(len(ts)))
		}
	})

	It("keeps a Zero block output at zero for any input", func() {
		d := openLoop(block.NewZero("Z", "u", "y"), signal.Step(2, 1, 3))
		res, err := d.Simulate(ts)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Series["y"]).To(HaveEach(0.0))
		u, ok := res.Final("u")
		Expect(ok).To(BeTrue())
		Expect(u).To(Equal(5.0))
	})

	It("follows the first order step response", func() {
		g, err := block.NewLTI("G", "u", "y", []float64{1}, []float64{1, 1}, 0)
		Expect(err).NotTo(HaveOccurred())

		fine := diagram.Timestamps(0, 5, 500)
		res, err := openLoop(g, signal.Step(0, 0, 1)).Simulate(fine)
		Expect(err).NotTo(HaveOccurred())
		for i, t := range res.Times {
			Expect(res.Series["y"][i]).To(BeNumerically("~", 1-math.Exp(-t), 0.01))
		}
	})

	It("shifts a step by exactly the dead time", func() {
		dead, err := block.NewDeadtime("D", "u", "y", 1.5)
		Expect(err).NotTo(HaveOccurred())

		grid := diagram.Timestamps(0, 8, 32)
		res, err := openLoop(dead, signal.Step(0, 2, 1)).Simulate(grid)
		Expect(err).NotTo(HaveOccurred())
		for i, t := range res.Times {
			want := 0.0
			if t >= 3.5 {
				want = 1
			}
			Expect(res.Series["y"][i]).To(Equal(want), "t=%.2f", t)
		}
	})

	It("passes a unit discrete transfer function through with at most one sample lag", func() {
		dtf, err := block.NewDiscreteTF("Gz", "u", "y", 0.25, []float64{1}, []float64{1})
		Expect(err).NotTo(HaveOccurred())

		grid := diagram.Timestamps(0, 5, 20)
		res, err := openLoop(dtf, signal.Step(0, 1, 2)).Simulate(grid)
		Expect(err).NotTo(HaveOccurred())

		u, y := res.Series["u"], res.Series["y"]
		for i := range u {
			if y[i] == u[i] {
				continue
			}
			Expect(i).To(BeNumerically(">", 0))
			Expect(y[i]).To(Equal(u[i-1]))
		}
		Expect(y[len(y)-1]).To(Equal(2.0))
	})

	It("notifies observers once per tick", func() {
		counter := &tickCounter{}
		d := openLoop(block.NewZero("Z", "u", "y"), signal.Zero)
		d.AddObserver(counter)

		_, err := d.Simulate(ts)
		Expect(err).NotTo(HaveOccurred())
		Expect(counter.ticks).To(HaveLen(len(ts)))
		Expect(counter.ticks[len(ts)-1]).To(Equal(len(ts) - 1))
		Expect(counter.total).To(Equal(len(ts)))
	})

	It("aborts on a dangling reference", func() {
		d, err := diagram.New(
			[]block.Block{block.NewZero("Z", "u", "y")},
			[]diagram.Sum{{Output: "u", Terms: []string{"+nowhere"}}},
			nil,
		)
		Expect(err).NotTo(HaveOccurred())

		res, err := d.Simulate(ts)
		Expect(res).To(BeNil())
		Expect(err).To(MatchError(diagram.ErrUnknownSignal))

		var simErr *diagram.SimulationError
		Expect(errors.As(err, &simErr)).To(BeTrue())
		Expect(simErr.Step).To(BeZero())
	})
})

var _ = Describe("Timestamps", func() {
	It("spans start to stop inclusive", func() {
		ts := diagram.Timestamps(0, 10, 100)
		Expect(ts).To(HaveLen(101))
		Expect(ts[0]).To(Equal(0.0))
		Expect(ts[100]).To(Equal(10.0))
		Expect(ts[1]).To(BeNumerically("~", 0.1, 1e-12))
	})
})
