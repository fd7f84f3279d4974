package diagram

// Signals is the live signal table: the current value of every named
// signal, in the order the names were first written.
type Signals struct {
	values map[string]float64
	names  []string
}

func newSignals() *Signals {
	return &Signals{values: make(map[string]float64)}
}

// Get returns the current value of name.
func (s *Signals) Get(name string) (float64, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Names returns the signal names in first-written order.
func (s *Signals) Names() []string {
	return append([]string(nil), s.names...)
}

func (s *Signals) Len() int { return len(s.names) }

func (s *Signals) set(name string, v float64) {
	if _, ok := s.values[name]; !ok {
		s.names = append(s.names, name)
	}
	s.values[name] = v
}
