package chatdemo

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

//go:embed transcripts.json
var transcriptsJSON []byte

// DefaultVertical is the demo shown when a page does not ask for one.
const DefaultVertical = "nails"

// Catalog holds one transcript per business vertical.
type Catalog struct {
	transcripts map[string]Transcript
}

// LoadCatalog decodes the embedded transcripts.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(transcriptsJSON)
}

// ParseCatalog decodes a JSON object of vertical -> messages.
func ParseCatalog(data []byte) (*Catalog, error) {
	var raw map[string]Transcript
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("chatdemo: decode transcripts: %w", err)
	}
	c := &Catalog{transcripts: make(map[string]Transcript, len(raw))}
	for name, t := range raw {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("chatdemo: vertical %q: %w", name, err)
		}
		c.transcripts[strings.ToLower(name)] = t
	}
	return c, nil
}

// Get returns a copy of the vertical's transcript.
func (c *Catalog) Get(vertical string) (Transcript, bool) {
	t, ok := c.transcripts[strings.ToLower(strings.TrimSpace(vertical))]
	if !ok {
		return nil, false
	}
	out := make(Transcript, len(t))
	copy(out, t)
	return out, true
}

// Verticals lists the known verticals in sorted order.
func (c *Catalog) Verticals() []string {
	names := make([]string, 0, len(c.transcripts))
	for name := range c.transcripts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
