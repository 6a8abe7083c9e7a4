package driver

import (
	"encoding/json"

	"fnqual/internal/observ"
)

// TimingPayload is the JSON shape of one file's phase timings.
type TimingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	Cached  bool                 `json:"cached,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// Timings collects the timing payloads of every file that was processed.
func (r *Result) Timings() []TimingPayload {
	if r == nil {
		return nil
	}
	out := make([]TimingPayload, 0, len(r.Files))
	for i := range r.Files {
		fr := &r.Files[i]
		if fr.Timer == nil {
			continue
		}
		report := fr.Timer.Report()
		out = append(out, TimingPayload{
			Kind:    "file",
			Path:    fr.Path,
			Cached:  fr.Cached,
			TotalMS: report.TotalMS,
			Phases:  report.Phases,
		})
	}
	return out
}

// TimingsJSON renders Timings as an indented JSON array.
func (r *Result) TimingsJSON() ([]byte, error) {
	return json.MarshalIndent(r.Timings(), "", "  ")
}

// TotalTimer sums the phases of every file.
func (r *Result) TotalTimer() *observ.Timer {
	if r == nil {
		return observ.NewTimer()
	}
	timers := make([]*observ.Timer, 0, len(r.Files))
	for i := range r.Files {
		timers = append(timers, r.Files[i].Timer)
	}
	return observ.Aggregate(timers...)
}
