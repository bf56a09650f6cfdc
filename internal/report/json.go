package report

import (
	"encoding/json"
	"io"

	"profstat/internal/profile"
	"profstat/internal/stats"
)

type jsonDangling struct {
	ID    int64  `json:"id"`
	Start int64  `json:"start"`
	Line  int    `json:"line"`
	Label string `json:"label,omitempty"`
}

type jsonReport struct {
	Labels   []stats.LabelStats `json:"labels"`
	Dangling []jsonDangling     `json:"dangling,omitempty"`
}

// WriteJSON writes the statistics sorted by label, followed by the dangling
// begins of prof when given.
func WriteJSON(w io.Writer, t stats.Table, prof *profile.Profile) error {
	payload := jsonReport{Labels: t.Sorted()}
	if prof != nil {
		for _, d := range prof.Dangling {
			payload.Dangling = append(payload.Dangling, jsonDangling(d))
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
