package tui

// Progress is a diagram observer that forwards ticks to a channel without
// ever blocking the simulation: when the consumer lags, ticks are dropped.
type Progress struct {
	ch    chan ProgressMsg
	every int
}

// ProgressMsg reports a completed tick.
type ProgressMsg struct {
	Step  int
	Total int
	Time  float64
}

// NewProgress forwards every n-th tick and always the final one.
func NewProgress(every int) *Progress {
	if every < 1 {
		every = 1
	}
	return &Progress{ch: make(chan ProgressMsg, 16), every: every}
}

func (p *Progress) OnTick(step, total int, t float64) {
	if step%p.every != 0 && step != total-1 {
		return
	}
	select {
	case p.ch <- ProgressMsg{Step: step, Total: total, Time: t}:
	default:
	}
}

func (p *Progress) C() <-chan ProgressMsg { return p.ch }

// Close must only be called once the simulation has returned.
func (p *Progress) Close() { close(p.ch) }
