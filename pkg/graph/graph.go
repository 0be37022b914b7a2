package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Visualization Serialization API
// =============================================================================

// MarshalVisualization serializes v to pretty-printed JSON bytes.
func MarshalVisualization(v Visualization) ([]byte, error) {
	if v.Version == 0 {
		v.Version = FormatVersion
	}
	return json.MarshalIndent(v, "", "  ")
}

// UnmarshalVisualization deserializes JSON bytes into a Visualization and
// checks its index alignment.
func UnmarshalVisualization(data []byte) (Visualization, error) {
	var v Visualization
	if err := json.Unmarshal(data, &v); err != nil {
		return Visualization{}, fmt.Errorf("unmarshal visualization: %w", err)
	}
	if v.Version > FormatVersion {
		return Visualization{}, fmt.Errorf("unsupported format version %d", v.Version)
	}
	if err := v.Validate(); err != nil {
		return Visualization{}, err
	}
	return v, nil
}

// WriteVisualization writes v as JSON to w.
func WriteVisualization(v Visualization, w io.Writer) error {
	data, err := MarshalVisualization(v)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// ReadVisualization decodes a Visualization from r.
func ReadVisualization(r io.Reader) (Visualization, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Visualization{}, fmt.Errorf("read: %w", err)
	}
	return UnmarshalVisualization(data)
}

// WriteVisualizationFile writes v to a JSON file.
func WriteVisualizationFile(v Visualization, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteVisualization(v, f)
}

// ReadVisualizationFile reads a Visualization from a JSON file.
func ReadVisualizationFile(path string) (Visualization, error) {
	f, err := os.Open(path)
	if err != nil {
		return Visualization{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadVisualization(f)
}

// MarshalDocument serializes a single document graph, the payload of the
// per-document JSON export.
func MarshalDocument(d DocumentGraph) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
