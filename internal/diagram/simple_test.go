package diagram_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/blocksim/internal/block"
	"github.com/san-kum/blocksim/internal/diagram"
	"github.com/san-kum/blocksim/internal/signal"
)

var _ = Describe("SimpleControl", func() {
	var (
		d  *diagram.Diagram
		ts []float64
	)

	BeforeEach(func() {
		gc, err := block.NewPI("Gc", "e", "u", 1, 1)
		Expect(err).NotTo(HaveOccurred())
		g, err := block.NewLTI("G", "u", "yu", []float64{1}, []float64{1, 1}, 0)
		Expect(err).NotTo(HaveOccurred())

		d, err = diagram.NewSimpleControl(gc, g)
		Expect(err).NotTo(HaveOccurred())
		ts = diagram.Timestamps(0, 10, 100)
	})

	It("wires the standard loop", func() {
		for _, name := range []string{"Gc", "G", "Gm", "Gd"} {
			_, ok := d.Block(name)
			Expect(ok).To(BeTrue(), name)
		}
		gm, ok := d.Block("Gm")
		Expect(ok).To(BeTrue())
		Expect(gm.Input()).To(Equal("y"))
		Expect(gm.Output()).To(Equal("ym"))
	})

	It("settles on the setpoint with integral action", func() {
		res, err := d.Simulate(ts)
		Expect(err).NotTo(HaveOccurred())

		y, _ := res.Final("y")
		Expect(y).To(BeNumerically("~", 1, 0.01))

		e, _ := res.Final("e")
		Expect(e).To(BeNumerically("~", 0, 0.01))

		Expect(res.Names).To(ContainElements("ysp", "d", "e", "u", "yu", "yd", "y", "ym"))
	})

	It("is repeatable across runs", func() {
		first, err := d.Simulate(ts)
		Expect(err).NotTo(HaveOccurred())
		second, err := d.Simulate(ts)
		Expect(err).NotTo(HaveOccurred())
		Expect(second).To(Equal(first))
	})

	It("rejects a step disturbance", func() {
		gc, err := block.NewPI("Gc", "e", "u", 1, 1)
		Expect(err).NotTo(HaveOccurred())
		g, err := block.NewLTI("G", "u", "yu", []float64{1}, []float64{1, 1}, 0)
		Expect(err).NotTo(HaveOccurred())
		gd, err := block.NewLTI("Gd", "d", "yd", []float64{1}, []float64{2, 1}, 0)
		Expect(err).NotTo(HaveOccurred())

		d, err := diagram.NewSimpleControl(gc, g,
			diagram.WithDisturbance(gd),
			diagram.WithSetpoint(signal.Zero),
			diagram.WithDisturbanceInput(signal.Step(0, 1, 1)),
		)
		Expect(err).NotTo(HaveOccurred())

		res, err := d.Simulate(diagram.Timestamps(0, 20, 200))
		Expect(err).NotTo(HaveOccurred())

		yd, _ := res.Final("yd")
		Expect(yd).To(BeNumerically(">", 0.9))
		y, _ := res.Final("y")
		Expect(y).To(BeNumerically("~", 0, 0.01))
	})

	It("holds the controller output in manual", func() {
		gc, err := block.NewPI("Gc", "e", "u", 1, 1)
		Expect(err).NotTo(HaveOccurred())
		gc.SetAutomatic(false)
		g, err := block.NewLTI("G", "u", "yu", []float64{1}, []float64{1, 1}, 0)
		Expect(err).NotTo(HaveOccurred())

		d, err := diagram.NewSimpleControl(gc, g)
		Expect(err).NotTo(HaveOccurred())

		res, err := d.Simulate(ts)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Series["u"]).To(HaveEach(0.0))
		Expect(res.Series["y"]).To(HaveEach(0.0))
	})
})
