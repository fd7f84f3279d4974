package optim

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/blocksim/internal/config"
	"github.com/san-kum/blocksim/internal/experiment"
)

func firstOrderLoop() *config.Config {
	cfg := config.GetPreset("pi_first_order")
	cfg.Time.Stop = 10
	return cfg
}

func TestSearchPrefersFasterLoop(t *testing.T) {
	g := NewWithT(t)

	// With tau_i equal to the plant time constant the loop reduces to
	// kc/(s+kc), so IAE falls as 1/kc.
	gs, err := NewGridSearch([]string{"kc", "tau_i"}, [][]float64{{0.5, 1, 2, 4}, {1}})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(gs.Size()).To(Equal(4))

	params, best, err := gs.Search(context.Background(), TuneBlock(firstOrderLoop(), "Gc"), "iae")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(params).To(Equal(map[string]float64{"kc": 4, "tau_i": 1}))
	g.Expect(best).To(BeNumerically("~", 0.25, 0.05))
}

func TestSearchSkipsBrokenCandidates(t *testing.T) {
	g := NewWithT(t)

	gs, err := NewGridSearch([]string{"kc"}, [][]float64{{1, 2}})
	g.Expect(err).NotTo(HaveOccurred())

	build := func(p map[string]float64) (*experiment.Experiment, error) {
		if p["kc"] == 2 {
			return nil, errors.New("broken")
		}
		return TuneBlock(firstOrderLoop(), "Gc")(p)
	}
	params, _, err := gs.Search(context.Background(), build, "iae")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(params).To(HaveKeyWithValue("kc", 1.0))
}

func TestSearchNoCandidate(t *testing.T) {
	g := NewWithT(t)

	gs, err := NewGridSearch([]string{"kc"}, [][]float64{{1}})
	g.Expect(err).NotTo(HaveOccurred())

	_, _, err = gs.Search(context.Background(), TuneBlock(firstOrderLoop(), "missing"), "iae")
	g.Expect(errors.Is(err, ErrNoCandidate)).To(BeTrue())
}

func TestSearchCancelled(t *testing.T) {
	g := NewWithT(t)

	gs, err := NewGridSearch([]string{"kc"}, [][]float64{{1, 2}})
	g.Expect(err).NotTo(HaveOccurred())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = gs.Search(ctx, TuneBlock(firstOrderLoop(), "Gc"), "iae")
	g.Expect(errors.Is(err, context.Canceled)).To(BeTrue())
}

func TestNewGridSearchValidates(t *testing.T) {
	g := NewWithT(t)

	_, err := NewGridSearch([]string{"kc"}, nil)
	g.Expect(err).To(HaveOccurred())

	_, err = NewGridSearch([]string{"kc"}, [][]float64{{}})
	g.Expect(err).To(HaveOccurred())
}

func TestTuneBlockLeavesBaseUntouched(t *testing.T) {
	g := NewWithT(t)

	base := firstOrderLoop()
	_, err := TuneBlock(base, "Gc")(map[string]float64{"kc": 7})
	g.Expect(err).NotTo(HaveOccurred())

	gc, _ := base.Block("Gc")
	g.Expect(gc.Params).To(HaveKeyWithValue("kc", 1.0))
}

func TestLinspace(t *testing.T) {
	g := NewWithT(t)

	g.Expect(Linspace(0, 1, 5)).To(Equal([]float64{0, 0.25, 0.5, 0.75, 1}))
	g.Expect(Linspace(3, 9, 1)).To(Equal([]float64{3}))
}
