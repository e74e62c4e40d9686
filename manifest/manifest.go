// Package manifest records content identifiers of the files a run emits so
// that two runs can be compared byte for byte.
package manifest

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"gopkg.in/yaml.v3"
)

// Fingerprint returns the CIDv1 of data using the raw codec and a sha2-256
// multihash.
func Fingerprint(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// FingerprintFile fingerprints the content of a file.
func FingerprintFile(path string) (cid.Cid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cid.Undef, err
	}
	return Fingerprint(data)
}

// Entry is one emitted file.
type Entry struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
	CID  string `yaml:"cid"`
}

// Manifest describes one run.
type Manifest struct {
	Seed       uint64  `yaml:"seed"`
	Relays     int     `yaml:"relays"`
	Configs    int     `yaml:"configs"`
	Tests      int     `yaml:"tests"`
	VectorBits int     `yaml:"vector_bits"`
	SimTime    int     `yaml:"sim_time"`
	Artifacts  []Entry `yaml:"artifacts"`
}

// Add fingerprints the file at path and records it under name.
func (m *Manifest) Add(name, path string) error {
	id, err := FingerprintFile(path)
	if err != nil {
		return fmt.Errorf("failed to fingerprint %s: %w", name, err)
	}

	m.Artifacts = append(m.Artifacts, Entry{Name: name, Path: path, CID: id.String()})
	return nil
}

// Lookup returns the recorded identifier of an artifact.
func (m *Manifest) Lookup(name string) (cid.Cid, bool) {
	for _, e := range m.Artifacts {
		if e.Name != name {
			continue
		}
		id, err := cid.Decode(e.CID)
		if err != nil {
			return cid.Undef, false
		}
		return id, true
	}
	return cid.Undef, false
}

// Diff returns the names of artifacts whose content differs between two
// manifests, including artifacts only one of them lists.
func (m *Manifest) Diff(other *Manifest) []string {
	var names []string
	seen := make(map[string]bool)

	for _, e := range m.Artifacts {
		seen[e.Name] = true
		id, ok := other.Lookup(e.Name)
		if !ok || id.String() != e.CID {
			names = append(names, e.Name)
		}
	}
	for _, e := range other.Artifacts {
		if !seen[e.Name] {
			names = append(names, e.Name)
		}
	}

	return names
}

// Stale returns the names of artifacts whose file no longer matches the
// recorded identifier.
func (m *Manifest) Stale() []string {
	var names []string
	for _, e := range m.Artifacts {
		id, err := FingerprintFile(e.Path)
		if err != nil || id.String() != e.CID {
			names = append(names, e.Name)
		}
	}
	return names
}

// Save writes the manifest as YAML.
func (m *Manifest) Save(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads a manifest written by Save.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	m := &Manifest{}
	if err := dec.Decode(m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", path, err)
	}

	for _, e := range m.Artifacts {
		if _, err := cid.Decode(e.CID); err != nil {
			return nil, fmt.Errorf("manifest %s: artifact %s: %w", path, e.Name, err)
		}
	}

	return m, nil
}
