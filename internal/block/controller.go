package block

// Controller is an LTI block that can be switched to manual. In manual mode
// the output is held at its last value; the state keeps integrating.
type Controller struct {
	*LTI
	automatic bool
}

func NewController(name, input, output string, num, den []float64, delay float64, automatic bool) (*Controller, error) {
	return newController("Controller", name, input, output, num, den, delay, automatic)
}

func newController(kind, name, input, output string, num, den []float64, delay float64, automatic bool) (*Controller, error) {
	l, err := newLTI(kind, name, input, output, num, den, delay)
	if err != nil {
		return nil, err
	}
	return &Controller{LTI: l, automatic: automatic}, nil
}

func (c *Controller) ChangeInput(t, u float64) float64 {
	if !c.automatic {
		return c.y
	}
	return c.LTI.ChangeInput(t, u)
}

func (c *Controller) Automatic() bool         { return c.automatic }
func (c *Controller) SetAutomatic(auto bool) { c.automatic = auto }

// NewPI returns the textbook PI controller Kc·(1 + 1/(τi·s)) realized as
// (Kc·τi·s + Kc)/(τi·s).
func NewPI(name, input, output string, kc, tauI float64) (*Controller, error) {
	return newController("PI", name, input, output,
		[]float64{kc * tauI, kc},
		[]float64{tauI, 0},
		0, true)
}

// NewPID returns the realisable parallel ISA PID controller with a first
// order derivative filter:
//
//	Kc·(1 + 1/(τi·s) + τd·s/(αf·τd·s + 1))
//
// With tauD == 0 the result is the PI controller from NewPI.
func NewPID(name, input, output string, kc, tauI, tauD, alphaF float64) (*Controller, error) {
	if tauD == 0 {
		return NewPI(name, input, output, kc, tauI)
	}

	num := []float64{
		kc*alphaF*tauD*tauI + kc*tauD*tauI,
		kc*alphaF*tauD + kc*tauI,
		kc,
	}
	den := []float64{alphaF * tauD * tauI, tauI, 0.0}
	return newController("PID", name, input, output, num, den, 0, true)
}
