package block

import (
	"errors"
	"math"
	"testing"

	. "github.com/onsi/gomega"
)

func TestZero(t *testing.T) {
	g := NewWithT(t)

	z := NewZero("Gd", "d", "yd")
	for _, u := range []float64{-3, 0, 1, 1e9} {
		g.Expect(advance(z, 1, u, 0.1)).To(BeZero())
	}
	g.Expect(z.Derivative(5)).To(BeEmpty())
	g.Expect(z.String()).To(Equal("Zero: d →[ Gd ]→ yd"))
}

func TestAlgebraicEquation(t *testing.T) {
	g := NewWithT(t)

	a := NewAlgebraicEquation("f", "u", "y", func(t, u float64) float64 { return t + 2*u })
	g.Expect(a.ChangeInput(1, 3)).To(Equal(7.0))
	g.Expect(a.Derivative(3)).To(BeEmpty())

	a.Reset()
	g.Expect(a.ChangeInput(0, 0)).To(BeZero())
}

func TestAlgebraicHelpers(t *testing.T) {
	g := NewWithT(t)

	g.Expect(Gain(2.5)(0, 2)).To(Equal(5.0))

	sat := Saturation(-1, 1)
	g.Expect(sat(0, -3)).To(Equal(-1.0))
	g.Expect(sat(0, 0.5)).To(Equal(0.5))
	g.Expect(sat(0, 3)).To(Equal(1.0))
}

func TestDeadtimeShiftsStep(t *testing.T) {
	g := NewWithT(t)

	d, err := NewDeadtime("D", "u", "y", 1)
	g.Expect(err).NotTo(HaveOccurred())

	dt := 0.25
	for i := 0; i <= 40; i++ {
		tm := float64(i) * dt
		u := 0.0
		if tm >= 0.5 {
			u = 1
		}
		want := 0.0
		if tm >= 1.5 {
			want = 1
		}
		g.Expect(d.ChangeInput(tm, u)).To(Equal(want), "t=%.2f", tm)
	}
}

func TestDeadtimeInterpolates(t *testing.T) {
	g := NewWithT(t)

	d, err := NewDeadtime("D", "u", "y", 0.5)
	g.Expect(err).NotTo(HaveOccurred())

	for i := 0; i <= 10; i++ {
		tm := float64(i)
		y := d.ChangeInput(tm, 2*tm)
		if tm >= 1 {
			g.Expect(y).To(BeNumerically("~", 2*(tm-0.5), 1e-12))
		}
	}
}

func TestDeadtimeZeroDelayPassesThrough(t *testing.T) {
	g := NewWithT(t)

	d, err := NewDeadtime("D", "u", "y", 0)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(d.ChangeInput(0, 3)).To(Equal(3.0))
	g.Expect(d.ChangeInput(0.1, -2)).To(Equal(-2.0))
}

func TestDeadtimeHistoryIsBounded(t *testing.T) {
	g := NewWithT(t)

	d, err := NewDeadtime("D", "u", "y", 1)
	g.Expect(err).NotTo(HaveOccurred())

	for i := 0; i < 10000; i++ {
		d.ChangeInput(float64(i)*0.25, math.Sin(float64(i)))
	}
	g.Expect(d.HistoryLen()).To(BeNumerically("<=", 6))

	d.Reset()
	g.Expect(d.HistoryLen()).To(Equal(1))
	g.Expect(d.ChangeInput(0, 1)).To(BeZero())
}

func TestDeadtimeNegativeDelay(t *testing.T) {
	g := NewWithT(t)

	_, err := NewDeadtime("D", "u", "y", -0.1)
	g.Expect(errors.Is(err, ErrNegativeDelay)).To(BeTrue())
}

func TestDiscreteTFIdentity(t *testing.T) {
	g := NewWithT(t)

	d, err := NewDiscreteTF("Gz", "u", "y", 0.5, []float64{1}, []float64{1})
	g.Expect(err).NotTo(HaveOccurred())

	inputs := []float64{0, 1, 1, 3, -2, -2, 0}
	for i, u := range inputs {
		g.Expect(d.ChangeInput(float64(i)*0.5, u)).To(Equal(u))
	}
}

func TestDiscreteTFHoldsBetweenSamples(t *testing.T) {
	g := NewWithT(t)

	d, err := NewDiscreteTF("Gz", "u", "y", 1, []float64{1}, []float64{1})
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(d.ChangeInput(0, 1)).To(Equal(1.0))
	g.Expect(d.ChangeInput(0.5, 5)).To(Equal(1.0))
	g.Expect(d.ChangeInput(1, 5)).To(Equal(5.0))
	g.Expect(d.ChangeInput(1.5, 9)).To(Equal(5.0))
}

func TestDiscreteTFFirstOrder(t *testing.T) {
	g := NewWithT(t)

	// y[n] - 0.5·y[n-1] = u[n]
	d, err := NewDiscreteTF("Gz", "u", "y", 1, []float64{1}, []float64{1, -0.5})
	g.Expect(err).NotTo(HaveOccurred())

	want := []float64{1, 1.5, 1.75, 1.875}
	for i, w := range want {
		g.Expect(d.ChangeInput(float64(i), 1)).To(Equal(w))
	}

	d.Reset()
	g.Expect(d.ChangeInput(0, 1)).To(Equal(1.0))
}

func TestDiscreteTFMovingAverage(t *testing.T) {
	g := NewWithT(t)

	d, err := NewDiscreteTF("Gz", "u", "y", 1, []float64{0.5, 0.5}, []float64{1})
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(d.ChangeInput(0, 2)).To(Equal(1.0))
	g.Expect(d.ChangeInput(1, 4)).To(Equal(3.0))
	g.Expect(d.ChangeInput(2, 4)).To(Equal(4.0))
	g.Expect(d.Derivative(4)).To(BeEmpty())
}

func TestDiscreteTFConstructionErrors(t *testing.T) {
	tests := []struct {
		name string
		dt   float64
		num  []float64
		den  []float64
		want error
	}{
		{"zero leading denominator", 1, []float64{1}, []float64{0, 1}, ErrDegenerateDenominator},
		{"empty denominator", 1, []float64{1}, nil, ErrDegenerateDenominator},
		{"empty numerator", 1, nil, []float64{1}, ErrEmptyNumerator},
		{"zero sampling", 0, []float64{1}, []float64{1}, ErrInvalidSampling},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			_, err := NewDiscreteTF("Gz", "u", "y", tt.dt, tt.num, tt.den)
			g.Expect(errors.Is(err, tt.want)).To(BeTrue(), "got %v", err)
		})
	}
}

func TestStateArithmetic(t *testing.T) {
	g := NewWithT(t)

	a := State{1, 2, 3}
	b := State{4, 5, 6}
	g.Expect(a.Add(b)).To(Equal(State{5, 7, 9}))
	g.Expect(a.Scale(2)).To(Equal(State{2, 4, 6}))
	g.Expect(State{3, 4}.Norm()).To(Equal(5.0))
	g.Expect(State{1, math.NaN()}.IsValid()).To(BeFalse())
	g.Expect(State(nil).Clone()).To(BeNil())
}

func TestStatelessBlocksHaveNilState(t *testing.T) {
	g := NewWithT(t)

	d, err := NewDeadtime("D", "u", "y", 1)
	g.Expect(err).NotTo(HaveOccurred())
	dz, err := NewDiscreteTF("Dz", "u", "y", 0.1, []float64{1}, []float64{1, -0.5})
	g.Expect(err).NotTo(HaveOccurred())

	for _, b := range []Block{
		NewZero("Z", "u", "y"),
		NewAlgebraicEquation("K", "u", "y", Gain(2)),
		d,
		dz,
	} {
		b.ChangeState(State{1, 2})
		g.Expect(b.State()).To(BeNil(), b.Name())
		g.Expect(b.Derivative(1)).To(BeNil(), b.Name())
	}
}
