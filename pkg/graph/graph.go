package graph

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
)

// Snapshot is the serialized form of a graph at one instant: node positions,
// rendered edge endpoints and metrics. It is output only; graphs are always
// rebuilt from relationship records.
type Snapshot struct {
	EngineID string  `json:"engineId,omitempty"`
	Ticks    int     `json:"ticks"`
	Alpha    float64 `json:"alpha"`
	Nodes    []*Node `json:"nodes"`
	Edges    []*Edge `json:"edges"`
	Metrics  Metrics `json:"metrics"`
}

// Snapshot captures the engine's current state.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		EngineID: e.id,
		Ticks:    e.sim.Ticks(),
		Alpha:    e.sim.Alpha(),
		Nodes:    e.g.nodes,
		Edges:    e.g.Edges,
		Metrics:  e.g.Metrics,
	}
}

// =============================================================================
// Snapshot Serialization API
// =============================================================================

// MarshalSnapshot converts a snapshot to indented JSON bytes.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteSnapshot(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteSnapshotFile writes a snapshot to a JSON file.
// The file is created with 0644 permissions.
func WriteSnapshotFile(s Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteSnapshot(s, f)
}

// WriteSnapshot writes a snapshot as JSON to an io.Writer.
func WriteSnapshot(s Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
