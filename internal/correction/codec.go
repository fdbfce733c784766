package correction

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/Veraticus/expense-analysis/internal/common"
)

// ClassKey is the key holding the discriminant in a serialized correction.
const ClassKey = "class"

// ErrUnknownKind is returned when a serialized correction names no known variant.
var ErrUnknownKind = fmt.Errorf("%w: unknown correction class", common.ErrInvalidConfig)

// Param is one key/value pair of a serialized correction.
type Param struct {
	Value any
	Key   string
}

// Params is an ordered mapping. Values are strings, bools, ints or nil once encoded;
// decoded JSON may also carry json.Number.
type Params []Param

// Get returns the value stored under key.
func (p Params) Get(key string) (any, bool) {
	for _, kv := range p {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return nil, false
}

// MarshalJSON writes the params as an object, keeping their order.
func (p Params) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	out := bytes.NewBufferString("{")
	for i, kv := range p {
		if i > 0 {
			out.WriteByte(',')
		}
		buf.Reset()
		if err := enc.Encode(kv.Key); err != nil {
			return nil, err
		}
		out.Write(bytes.TrimRight(buf.Bytes(), "\n"))
		out.WriteByte(':')

		buf.Reset()
		if err := enc.Encode(kv.Value); err != nil {
			return nil, fmt.Errorf("failed to encode %q: %w", kv.Key, err)
		}
		out.Write(bytes.TrimRight(buf.Bytes(), "\n"))
	}
	out.WriteByte('}')
	return out.Bytes(), nil
}

// UnmarshalJSON reads an object, keeping key order. Numbers are kept as json.Number.
func (p *Params) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: correction must be an object", common.ErrInvalidConfig)
	}

	var out Params
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: object key is not a string", common.ErrInvalidConfig)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return err
		}
		out = append(out, Param{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*p = out
	return nil
}

// Encode serializes a correction: its parameters in constructor order, then the class.
func Encode(c Correction) Params {
	p := c.params()
	return append(p, Param{Key: ClassKey, Value: string(c.Kind())})
}

// decoder builds a correction from its parameters.
type decoder func(a *args) Correction

// registry lists every known kind. Adding a variant means adding it here.
var registry = map[Kind]decoder{
	KindCategoryWhereLabelContains: func(a *args) Correction {
		return CategoryWhereLabelContains{
			Contains:     a.str("contains"),
			ToLower:      a.boolean("to_lower"),
			CorrectValue: a.str("correct_value"),
			Comments:     a.note("comments"),
		}
	},
	KindCategoryFromLoc: func(a *args) Correction {
		return CategoryFromLoc{
			LocID:        a.integer("loc_id"),
			CorrectValue: a.str("correct_value"),
			Comments:     a.note("comments"),
		}
	},
	KindDateFromLoc: func(a *args) Correction {
		return DateFromLoc{
			LocID:        a.integer("loc_id"),
			CorrectValue: a.str("correct_value"),
			Comments:     a.note("comments"),
		}
	},
	KindRowDropping: func(a *args) Correction {
		return RowDropping{
			LocID:    a.integer("loc_id"),
			Comments: a.note("comments"),
		}
	},
}

// Kinds returns every known kind.
func Kinds() []Kind {
	return []Kind{
		KindCategoryWhereLabelContains,
		KindCategoryFromLoc,
		KindDateFromLoc,
		KindRowDropping,
	}
}

// Decode rebuilds a correction from its serialized parameters.
func Decode(p Params) (Correction, error) {
	raw, ok := p.Get(ClassKey)
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", common.ErrInvalidConfig, ClassKey)
	}
	name, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %q must be a string", common.ErrInvalidConfig, ClassKey)
	}

	build, ok := registry[Kind(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}

	a := newArgs(Kind(name), p)
	c := build(a)
	if err := a.finish(); err != nil {
		return nil, err
	}
	return c, nil
}

// args reads typed parameters, remembering the first problem it sees.
type args struct {
	values map[string]any
	used   map[string]bool
	err    error
	kind   Kind
}

func newArgs(kind Kind, p Params) *args {
	a := &args{
		kind:   kind,
		values: make(map[string]any, len(p)),
		used:   map[string]bool{ClassKey: true},
	}
	for _, kv := range p {
		a.values[kv.Key] = kv.Value
	}
	return a
}

func (a *args) fail(key, problem string) {
	if a.err == nil {
		a.err = fmt.Errorf("%w: %s parameter %q %s", common.ErrInvalidConfig, a.kind, key, problem)
	}
}

func (a *args) lookup(key string) (any, bool) {
	a.used[key] = true
	v, ok := a.values[key]
	if !ok {
		a.fail(key, "is missing")
		return nil, false
	}
	if v == nil {
		a.fail(key, "must not be null")
		return nil, false
	}
	return v, true
}

func (a *args) str(key string) string {
	v, ok := a.lookup(key)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		a.fail(key, "must be a string")
	}
	return s
}

func (a *args) boolean(key string) bool {
	v, ok := a.lookup(key)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		a.fail(key, "must be a boolean")
	}
	return b
}

func (a *args) integer(key string) int {
	v, ok := a.lookup(key)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			a.fail(key, "must be an integer")
		}
		return int(i)
	case float64:
		if n != math.Trunc(n) {
			a.fail(key, "must be an integer")
		}
		return int(n)
	default:
		a.fail(key, "must be an integer")
		return 0
	}
}

// note reads an optional string; absent and null both mean no comment.
func (a *args) note(key string) *string {
	a.used[key] = true
	v, ok := a.values[key]
	if !ok || v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		a.fail(key, "must be a string or null")
		return nil
	}
	return &s
}

func (a *args) finish() error {
	if a.err != nil {
		return a.err
	}
	var unexpected []error
	for key := range a.values {
		if !a.used[key] {
			unexpected = append(unexpected, fmt.Errorf("%w: %s got unexpected parameter %q", common.ErrInvalidConfig, a.kind, key))
		}
	}
	return errors.Join(unexpected...)
}
