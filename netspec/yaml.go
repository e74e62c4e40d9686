package netspec

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/cfgnet/bits"
	"github.com/sarchlab/cfgnet/topology"
)

// yamlSpec mirrors the line format:
//
//	relays:
//	  - id: 0
//	  - id: 1
//	    parent: x
//	configs:
//	  - id: 3
//	    branch: 1
//	    name: mode
//	    width: 4
//	    default: "0101"
type yamlSpec struct {
	Relays []struct {
		ID     int    `yaml:"id"`
		Parent string `yaml:"parent"`
	} `yaml:"relays"`
	Configs []struct {
		ID      int    `yaml:"id"`
		Branch  string `yaml:"branch"`
		Name    string `yaml:"name"`
		Width   int    `yaml:"width"`
		Default string `yaml:"default"`
	} `yaml:"configs"`
}

// ParseYAML reads the YAML format. Entries are numbered from 1 in the Line
// field of the resulting declarations, relays first.
func ParseYAML(r io.Reader) (topology.Spec, error) {
	var doc yamlSpec
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return topology.Spec{}, &topology.SpecError{Message: err.Error()}
	}

	var spec topology.Spec
	entry := 0

	for _, r := range doc.Relays {
		entry++
		decl := topology.RelayDecl{ID: r.ID, Line: entry}
		if r.ID != 0 {
			if r.Parent == "" {
				return topology.Spec{}, fieldError(entry, "relay %d needs a parent id or x", r.ID)
			}
			p, err := parsePlacement(r.Parent, "parent id", entry)
			if err != nil {
				return topology.Spec{}, err
			}
			decl.Parent = p
		}
		spec.Relays = append(spec.Relays, decl)
	}

	for _, c := range doc.Configs {
		entry++
		attach, err := parsePlacement(c.Branch, "branch id", entry)
		if err != nil {
			return topology.Spec{}, err
		}
		def, err := bits.Parse(c.Default)
		if err != nil {
			return topology.Spec{}, fieldError(entry, "config %d default: %v", c.ID, err)
		}
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("config_%d", c.ID)
		}

		spec.Configs = append(spec.Configs, topology.ConfigDecl{
			ID:      c.ID,
			Attach:  attach,
			Name:    name,
			Width:   c.Width,
			Default: def,
			Line:    entry,
		})
	}

	return spec, nil
}
