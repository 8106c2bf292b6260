package chart

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// chartFile is the on-disk YAML shape. The format is deliberately
// minimal: the core treats chart parsing as an external collaborator
// and only requires a sorted note list out the other side.
type chartFile struct {
	Title   string  `yaml:"title"`
	Artist  string  `yaml:"artist"`
	Version string  `yaml:"version"`
	Audio   string  `yaml:"audio"`
	Keys    int     `yaml:"keys"`
	BPM     float64 `yaml:"bpm"`
	MinRate float64 `yaml:"min_rate"`
	MaxRate float64 `yaml:"max_rate"`

	Notes []noteEntry `yaml:"notes"`
}

type noteEntry struct {
	Time float64 `yaml:"time"`
	Lane int     `yaml:"lane"`
	End  float64 `yaml:"end,omitempty"` // non-zero marks a hold
}

// Load reads and validates a chart file. Notes are sorted by time on
// load; everything downstream may assume ordering.
func Load(path string) (*Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("chart: cannot read %s: %w", path, err)
	}

	var cf chartFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("chart: cannot parse %s: %w", path, err)
	}

	c := &Chart{
		Title:     cf.Title,
		Artist:    cf.Artist,
		Version:   cf.Version,
		KeyCount:  cf.Keys,
		BPM:       cf.BPM,
		MinRate:   cf.MinRate,
		MaxRate:   cf.MaxRate,
		AudioPath: cf.Audio,
	}
	if c.MinRate == 0 {
		c.MinRate = 0.5
	}
	if c.MaxRate == 0 {
		c.MaxRate = 2.0
	}
	if cf.Audio != "" && !filepath.IsAbs(cf.Audio) {
		c.AudioPath = filepath.Join(filepath.Dir(path), cf.Audio)
	}

	c.Notes = make([]Note, 0, len(cf.Notes))
	for _, e := range cf.Notes {
		n := Note{TimeMS: e.Time, Lane: e.Lane, Kind: KindTap}
		if e.End > 0 {
			n.Kind = KindHold
			n.HoldEndMS = e.End
		}
		c.Notes = append(c.Notes, n)
	}

	sort.SliceStable(c.Notes, func(i, j int) bool {
		return c.Notes[i].TimeMS < c.Notes[j].TimeMS
	})

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
