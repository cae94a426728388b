package models

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Decode parses raw YAML into the concrete record type named by its "type"
// field. Unknown or missing discriminants are structural errors.
func Decode(data []byte) (Record, error) {
	var probe struct {
		Type Kind `yaml:"type"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("models: parse record: %w", err)
	}

	switch probe.Type {
	case KindSummary:
		var s Summary
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("models: parse summary: %w", err)
		}
		return &s, nil
	case KindEntry:
		var e JournalEntry
		if err := yaml.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("models: parse entry: %w", err)
		}
		return &e, nil
	default:
		return nil, fmt.Errorf("models: unknown record type %q", probe.Type)
	}
}

// Encode serializes a record to YAML.
func Encode(r Record) ([]byte, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("models: encode record: %w", err)
	}
	return data, nil
}

// ToMap round-trips a record through YAML into a generic document, the shape
// the schema validator consumes.
func ToMap(r Record) (map[string]any, error) {
	data, err := Encode(r)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("models: record to map: %w", err)
	}
	return doc, nil
}
