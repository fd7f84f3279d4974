package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"strconv"

	"github.com/san-kum/blocksim/internal/diagram"
)

type ExportData struct {
	Name    string               `json:"name"`
	Dt      float64              `json:"dt"`
	Steps   int                  `json:"steps"`
	Times   []float64            `json:"times"`
	Names   []string             `json:"names"`
	Signals map[string][]float64 `json:"signals"`
	Metrics map[string]float64   `json:"metrics,omitempty"`
}

// ExportJSON writes a run as a single JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, result *diagram.Result) error {
	data := ExportData{
		Name:    meta.Name,
		Dt:      meta.Dt,
		Steps:   result.Len(),
		Times:   result.Times,
		Names:   result.Names,
		Signals: result.Series,
		Metrics: finite(meta.Metrics),
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteCSV writes one row per tick: time followed by every signal in
// result.Names order.
func WriteCSV(w io.Writer, result *diagram.Result) error {
	cw := csv.NewWriter(w)

	header := append([]string{"time"}, result.Names...)
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for i, t := range result.Times {
		row[0] = strconv.FormatFloat(t, 'g', -1, 64)
		for j, name := range result.Names {
			row[j+1] = strconv.FormatFloat(result.Series[name][i], 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// finite drops values JSON cannot encode, such as an unreached settling time.
func finite(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			continue
		}
		out[k] = v
	}
	return out
}
