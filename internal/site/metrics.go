package site

import (
	"strings"

	"github.com/wolfman30/mozbe-site/internal/countup"
)

// Metric is one headline number on the landing page.
type Metric struct {
	Label  string    `json:"label"`
	Raw    string    `json:"raw"`
	Target float64   `json:"target"`
	Valid  bool      `json:"valid"`
	Frames []float64 `json:"frames,omitempty"`
}

// ParseMetrics reads "label|target;label|target". Entries whose target is
// not a number are kept with Valid=false so the page shows the raw text
// without animating it; their labels are also returned in skipped.
func ParseMetrics(list string) (metrics []Metric, skipped []string) {
	for _, entry := range strings.Split(list, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		label, raw, found := strings.Cut(entry, "|")
		if !found {
			raw, label = label, ""
		}
		m := Metric{Label: strings.TrimSpace(label), Raw: strings.TrimSpace(raw)}
		if target, ok := countup.ParseTarget(m.Raw); ok {
			m.Target = target
			m.Valid = true
			m.Frames = countup.Frames(target)
		} else {
			skipped = append(skipped, m.Label)
		}
		metrics = append(metrics, m)
	}
	return metrics, skipped
}
