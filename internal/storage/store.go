// Package storage persists simulation runs on disk. Each run lives in its own
// directory holding metadata.json, signals.csv and the diagram.yaml it was
// built from.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/blocksim/internal/config"
	"github.com/san-kum/blocksim/internal/diagram"
	"github.com/san-kum/blocksim/internal/experiment"
	"github.com/san-kum/blocksim/internal/logging"
)

const (
	metadataFile = "metadata.json"
	signalsFile  = "signals.csv"
	diagramFile  = "diagram.yaml"
)

var (
	ErrRunNotFound  = errors.New("storage: run not found")
	ErrAmbiguousRun = errors.New("storage: run id prefix is ambiguous")
)

type Store struct {
	baseDir string
	logger  *slog.Logger
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func New(baseDir string, opts ...Option) *Store {
	s := &Store{baseDir: baseDir, logger: logging.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Start     float64            `json:"start"`
	Stop      float64            `json:"stop"`
	Dt        float64            `json:"dt"`
	Steps     int                `json:"steps"`
	Blocks    []string           `json:"blocks"`
	Signals   []string           `json:"signals"`
	Metrics   map[string]float64 `json:"metrics"`
	Elapsed   time.Duration      `json:"elapsed_ns"`
}

// Save writes a run and returns its id.
func (s *Store) Save(cfg *config.Config, result *experiment.Result) (string, error) {
	name := cfg.Name
	if name == "" {
		name = "run"
	}
	runID := fmt.Sprintf("%s_%s", sanitize(name), uuid.NewString())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	blocks := make([]string, 0, len(cfg.Blocks))
	for _, b := range cfg.Blocks {
		blocks = append(blocks, b.Name)
	}

	meta := RunMetadata{
		ID:        runID,
		Name:      cfg.Name,
		Timestamp: time.Now(),
		Start:     cfg.Time.Start,
		Stop:      cfg.Time.Stop,
		Dt:        cfg.Time.Dt,
		Steps:     result.Len(),
		Blocks:    blocks,
		Signals:   result.Names,
		Metrics:   finite(result.Metrics),
		Elapsed:   result.Duration,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, diagramFile), cfg); err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(runDir, signalsFile))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := WriteCSV(f, result.Result); err != nil {
		return "", err
	}

	s.logger.Debug("run saved", "id", runID, "steps", meta.Steps, "signals", len(meta.Signals))
	return runID, nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			s.logger.Debug("skipping unreadable run", "dir", entry.Name(), "err", err)
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

// Resolve expands a unique prefix of a run id to the full id.
func (s *Store) Resolve(prefix string) (string, error) {
	if _, err := os.Stat(filepath.Join(s.baseDir, prefix, metadataFile)); err == nil {
		return prefix, nil
	}

	runs, err := s.List()
	if err != nil {
		return "", err
	}
	var match string
	for _, r := range runs {
		if !strings.HasPrefix(r.ID, prefix) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("%w: %q", ErrAmbiguousRun, prefix)
		}
		match = r.ID
	}
	if match == "" {
		return "", fmt.Errorf("%w: %q", ErrRunNotFound, prefix)
	}
	return match, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadConfig returns the diagram a run was built from.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, diagramFile))
}

// LoadResult reads the recorded signals of a run.
func (s *Store) LoadResult(runID string) (*diagram.Result, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, signalsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}

	res := &diagram.Result{Series: make(map[string][]float64)}
	if len(records) == 0 {
		return res, nil
	}

	header := records[0]
	if len(header) == 0 || header[0] != "time" {
		return nil, fmt.Errorf("storage: %s: malformed header %v", runID, header)
	}
	res.Names = append(res.Names, header[1:]...)

	for i, record := range records[1:] {
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("storage: %s: row %d: %w", runID, i+1, err)
		}
		res.Times = append(res.Times, t)

		for j, name := range res.Names {
			v, err := strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("storage: %s: row %d column %s: %w", runID, i+1, name, err)
			}
			res.Series[name] = append(res.Series[name], v)
		}
	}

	return res, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
}
