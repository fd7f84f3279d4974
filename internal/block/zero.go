package block

// Zero outputs zero regardless of its input.
type Zero struct {
	base
}

func NewZero(name, input, output string) *Zero {
	return &Zero{base: base{kind: "Zero", name: name, input: input, output: output}}
}

func (z *Zero) Reset()                           {}
func (z *Zero) ChangeInput(t, u float64) float64 { return 0 }
func (z *Zero) ChangeState(x State)              {}
func (z *Zero) State() State                     { return nil }
func (z *Zero) Derivative(u float64) State       { return nil }
