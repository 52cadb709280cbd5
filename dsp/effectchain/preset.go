package effectchain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-blockfx/dsp/core"
)

// ErrInvalidPreset is returned for presets that cannot describe a chain.
var ErrInvalidPreset = errors.New("effectchain: invalid preset")

// Format names a preset encoding.
type Format int

const (
	// FormatJSON is a JSON document.
	FormatJSON Format = iota
	// FormatYAML is a YAML document.
	FormatYAML
)

// NodeSpec is one effect in a preset, in processing order.
type NodeSpec struct {
	ID       string         `json:"id,omitempty" yaml:"id,omitempty"`
	Type     string         `json:"type" yaml:"type"`
	Bypassed bool           `json:"bypassed,omitempty" yaml:"bypassed,omitempty"`
	Params   map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
}

// Preset describes a session and the ordered effects applied to it.
type Preset struct {
	Name           string     `json:"name,omitempty" yaml:"name,omitempty"`
	SampleRate     float64    `json:"sampleRate,omitempty" yaml:"sampleRate,omitempty"`
	BlockSize      int        `json:"blockSize,omitempty" yaml:"blockSize,omitempty"`
	StreamDuration float64    `json:"streamDuration,omitempty" yaml:"streamDuration,omitempty"`
	Nodes          []NodeSpec `json:"nodes" yaml:"nodes"`
}

// LoadPreset reads a preset file. Files ending in .yaml or .yml are parsed
// as YAML, everything else as JSON.
func LoadPreset(path string) (Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, fmt.Errorf("effectchain: read preset: %w", err)
	}

	format := FormatJSON
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	}

	return ParsePreset(data, format)
}

// ParsePreset decodes a preset and checks that every node has a type and a
// unique ID. Nodes without an ID get "<type>-<index>".
func ParsePreset(data []byte, format Format) (Preset, error) {
	var p Preset

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			return Preset{}, fmt.Errorf("%w: json: %w", ErrInvalidPreset, err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&p); err != nil {
			return Preset{}, fmt.Errorf("%w: yaml: %w", ErrInvalidPreset, err)
		}
	default:
		return Preset{}, fmt.Errorf("%w: unknown format %d", ErrInvalidPreset, int(format))
	}

	if err := p.normalize(); err != nil {
		return Preset{}, err
	}

	return p, nil
}

func (p *Preset) normalize() error {
	seen := make(map[string]struct{}, len(p.Nodes))

	for i := range p.Nodes {
		n := &p.Nodes[i]
		n.Type = strings.TrimSpace(n.Type)
		if n.Type == "" {
			return fmt.Errorf("%w: node %d has no type", ErrInvalidPreset, i)
		}

		if n.ID == "" {
			n.ID = fmt.Sprintf("%s-%d", n.Type, i)
		}

		if _, dup := seen[n.ID]; dup {
			return fmt.Errorf("%w: duplicate node id %q", ErrInvalidPreset, n.ID)
		}

		seen[n.ID] = struct{}{}
	}

	return nil
}

// Context returns the session context described by the preset, filling in
// the 44.1 kHz and 0.1 s block defaults.
func (p Preset) Context() Context {
	duration := p.StreamDuration
	if duration <= 0 {
		duration = core.DefaultStreamDuration
	}

	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(p.SampleRate),
		core.WithStreamDuration(duration),
		core.WithBlockSize(p.BlockSize),
	)

	return Context{SampleRate: cfg.SampleRate, BlockSize: cfg.BlockSize}
}

// Params returns the parsed parameters of every node in order.
func (p Preset) Params() []Params {
	out := make([]Params, len(p.Nodes))

	for i, n := range p.Nodes {
		num, str := parseNodeParams(n.Params)
		out[i] = Params{
			ID:       n.ID,
			Type:     n.Type,
			Bypassed: n.Bypassed,
			Num:      num,
			Str:      str,
		}
	}

	return out
}
