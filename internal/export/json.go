package export

import (
	"encoding/json"
	"fmt"
	"io"

	"OpenSketch/internal/scene"
)

// ToJSON writes the full scene as indented JSON, the same shape the wire
// protocol and persistence use.
func ToJSON(w io.Writer, sc scene.Scene) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sc)
}

// FromJSON parses an exported scene, applying defensive defaults for
// missing fields.
func FromJSON(r io.Reader) (scene.Scene, error) {
	var sc scene.Scene
	if err := json.NewDecoder(r).Decode(&sc); err != nil {
		return scene.Scene{}, fmt.Errorf("parse scene: %w", err)
	}
	return sc.Normalize(), nil
}
