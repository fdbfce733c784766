package correction

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/Veraticus/expense-analysis/internal/common"
	"github.com/Veraticus/expense-analysis/internal/model"
)

// Set is an ordered list of corrections applied as one sequential pass.
type Set struct {
	corrections []Correction
}

// NewSet creates a set holding the given corrections in order.
func NewSet(corrections ...Correction) *Set {
	s := &Set{}
	s.Append(corrections...)
	return s
}

// Append adds corrections after the existing ones.
func (s *Set) Append(corrections ...Correction) {
	s.corrections = append(s.corrections, corrections...)
}

// Len returns the number of corrections.
func (s *Set) Len() int {
	return len(s.corrections)
}

// Corrections returns the corrections in application order.
func (s *Set) Corrections() []Correction {
	out := make([]Correction, len(s.corrections))
	copy(out, s.corrections)
	return out
}

// Apply runs every correction in order against records. The first failure stops the pass;
// records are then partially corrected and should be discarded.
func (s *Set) Apply(records *model.RecordSet) error {
	for i, c := range s.corrections {
		before := records.Len()
		if err := c.Apply(records); err != nil {
			return fmt.Errorf("correction %d (%s): %w", i, c.Kind(), err)
		}
		slog.Debug("Applied correction",
			"index", i,
			"class", c.Kind(),
			"rows_before", before,
			"rows_after", records.Len())
	}
	return nil
}

// Mapping is the serialized form of a set.
type Mapping struct {
	CorrectionsHash string   `json:"corrections_hash"`
	Corrections     []Params `json:"corrections"`
}

// MarshalJSON keeps the corrections list ahead of the hash.
func (m Mapping) MarshalJSON() ([]byte, error) {
	corrections := m.Corrections
	if corrections == nil {
		corrections = []Params{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(struct {
		Corrections     []Params `json:"corrections"`
		CorrectionsHash string   `json:"corrections_hash"`
	}{corrections, m.CorrectionsHash})
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Mapping serializes every correction and fingerprints the result.
func (s *Set) Mapping() Mapping {
	rules := make([]Params, 0, len(s.corrections))
	for _, c := range s.corrections {
		rules = append(rules, Encode(c))
	}
	return Mapping{
		Corrections:     rules,
		CorrectionsHash: fingerprint(rules),
	}
}

// Hash returns the content fingerprint of the rule list.
func (s *Set) Hash() string {
	return s.Mapping().CorrectionsHash
}

// MarshalIndent renders the set as indented JSON.
func (s *Set) MarshalIndent() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.Mapping()); err != nil {
		return nil, fmt.Errorf("failed to encode corrections: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile writes the set to path as indented JSON, replacing any existing file.
func (s *Set) WriteFile(path string) error {
	data, err := s.MarshalIndent()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write corrections: %w", err)
	}
	return nil
}

// FromMapping rebuilds a set from serialized corrections. The stored hash is not consulted.
func FromMapping(m Mapping) (*Set, error) {
	s := &Set{corrections: make([]Correction, 0, len(m.Corrections))}
	for i, p := range m.Corrections {
		c, err := Decode(p)
		if err != nil {
			return nil, fmt.Errorf("correction %d: %w", i, err)
		}
		s.corrections = append(s.corrections, c)
	}
	return s, nil
}

// Document is a set read from disk together with the hash it was stored with.
type Document struct {
	Set        *Set
	StoredHash string
}

// HashMatches reports whether the stored hash matches the rules actually in the file.
func (d *Document) HashMatches() bool {
	return d.StoredHash == d.Set.Hash()
}

// Parse decodes a JSON document.
func Parse(data []byte) (*Document, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, fmt.Errorf("%w: %v", common.ErrMalformedFile, err)
		}
		return nil, fmt.Errorf("%w: corrections file must hold an object: %v", common.ErrInvalidConfig, err)
	}
	if _, ok := top["corrections"]; !ok {
		return nil, fmt.Errorf("%w: missing \"corrections\"", common.ErrInvalidConfig)
	}

	var m Mapping
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}

	set, err := FromMapping(m)
	if err != nil {
		return nil, err
	}
	return &Document{Set: set, StoredHash: m.CorrectionsHash}, nil
}

// ReadDocument reads a corrections file.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corrections: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// ReadFile reads a corrections file and returns its set.
func ReadFile(path string) (*Set, error) {
	doc, err := ReadDocument(path)
	if err != nil {
		return nil, err
	}
	return doc.Set, nil
}
