package mission

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// WriteYAML writes the registry as a "missions:" block that the config file accepts.
func (r *Registry) WriteYAML(w io.Writer) error {
	doc := struct {
		Missions []Descriptor `yaml:"missions"`
	}{Missions: r.All()}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("mission: encode yaml: %w", err)
	}
	return enc.Close()
}
