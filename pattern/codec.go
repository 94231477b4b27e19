// SPDX-License-Identifier: MIT

package pattern

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// EncodeJSON stamps the current record versions and marshals p.
func EncodeJSON(p Pattern) ([]byte, error) {
	p.VersionedRecord = CurrentRecord()

	return json.Marshal(p)
}

// DecodeJSON unmarshals, version-checks and validates one pattern.
func DecodeJSON(data []byte) (Pattern, error) {
	var p Pattern
	if err := json.Unmarshal(data, &p); err != nil {
		return Pattern{}, err
	}
	if err := checkVersion(p.VersionedRecord); err != nil {
		return Pattern{}, fmt.Errorf("%s: %w", p.ID, err)
	}
	if err := p.Validate(); err != nil {
		return Pattern{}, err
	}

	return p, nil
}

func checkVersion(v VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}

	return nil
}

// File is the on-disk YAML layout of a pattern set.
type File struct {
	SchemaVersion int       `yaml:"schema_version"`
	Patterns      []Pattern `yaml:"patterns"`
}

// DecodeYAML reads a pattern file. Hand-written files may omit per-pattern
// record versions; the file-level schema_version (0 means current) applies.
// Every pattern is validated.
func DecodeYAML(r io.Reader) ([]Pattern, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode pattern yaml: %w", err)
	}
	if f.SchemaVersion != 0 && f.SchemaVersion != CurrentSchemaVersion {
		return nil, fmt.Errorf("schema_version %d: %w", f.SchemaVersion, ErrVersionMismatch)
	}
	seen := make(map[string]bool, len(f.Patterns))
	for i := range f.Patterns {
		p := &f.Patterns[i]
		if p.SchemaVersion == 0 && p.CodecVersion == 0 {
			p.VersionedRecord = CurrentRecord()
		}
		if err := checkVersion(p.VersionedRecord); err != nil {
			return nil, fmt.Errorf("%s: %w", p.ID, err)
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate pattern %q: %w", p.ID, ErrInvalidPattern)
		}
		seen[p.ID] = true
	}

	return f.Patterns, nil
}

// EncodeYAML writes patterns in the File layout.
func EncodeYAML(w io.Writer, patterns []Pattern) error {
	f := File{SchemaVersion: CurrentSchemaVersion, Patterns: make([]Pattern, len(patterns))}
	for i, p := range patterns {
		p.VersionedRecord = CurrentRecord()
		f.Patterns[i] = p
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode pattern yaml: %w", err)
	}

	return enc.Close()
}
