package value

import (
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/linqs/psl-runtime-go/errors"
)

// Kind identifies the variant of a Value
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is the closed structured-value model shared by configurations and
// results: mappings with string keys, sequences, strings, numbers, booleans
// and null. Both sides of the engine boundary speak exactly this model and
// nothing else.
type Value interface {
	Kind() Kind
}

// Null is the absent value
type Null struct{}

// Bool is a boolean value
type Bool bool

// Number is a numeric value. Integers up to 2^53 round-trip exactly.
type Number float64

// String is a text value
type String string

// Sequence is an ordered list of values
type Sequence []Value

// Mapping is a string-keyed collection of values
type Mapping map[string]Value

func (Null) Kind() Kind     { return KindNull }
func (Bool) Kind() Kind     { return KindBool }
func (Number) Kind() Kind   { return KindNumber }
func (String) Kind() Kind   { return KindString }
func (Sequence) Kind() Kind { return KindSequence }
func (Mapping) Kind() Kind  { return KindMapping }

// Equal reports whether two model values are structurally identical.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch av := a.(type) {
	case Null:
		return true
	case Bool:
		return av == b.(Bool)
	case Number:
		return av == b.(Number)
	case String:
		return av == b.(String)
	case Sequence:
		bv := b.(Sequence)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Mapping:
		bv := b.(Mapping)
		if len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			other, ok := bv[k]
			if !ok || !Equal(v, other) {
				return false
			}
		}
		return true
	}
	return false
}

// FromGo normalizes an arbitrary Go value into the shared model.
// Supported inputs are model values themselves, nil, booleans, strings,
// integer and float types, slices, and maps with string keys; composition
// nests arbitrarily. Anything else fails with a serialization error naming
// the path to the offending value.
func FromGo(v any) (Value, error) {
	return fromGo(v, nil)
}

func fromGo(v any, path []string) (Value, error) {
	if v == nil {
		return Null{}, nil
	}

	switch t := v.(type) {
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case float64:
		return number(t, path)
	case float32:
		return number(float64(t), path)
	case int:
		return Number(t), nil
	case int8:
		return Number(t), nil
	case int16:
		return Number(t), nil
	case int32:
		return Number(t), nil
	case int64:
		return Number(t), nil
	case uint:
		return Number(t), nil
	case uint8:
		return Number(t), nil
	case uint16:
		return Number(t), nil
	case uint32:
		return Number(t), nil
	case uint64:
		return Number(t), nil
	case []any:
		seq := make(Sequence, len(t))
		for i, elem := range t {
			ev, err := fromGo(elem, append(path, fmt.Sprintf("[%d]", i)))
			if err != nil {
				return nil, err
			}
			seq[i] = ev
		}
		return seq, nil
	case map[string]any:
		m := make(Mapping, len(t))
		for k, elem := range t {
			ev, err := fromGo(elem, append(path, k))
			if err != nil {
				return nil, err
			}
			m[k] = ev
		}
		return m, nil
	}

	return fromGoReflect(v, path)
}

// fromGoReflect handles typed slices and maps ([]string, map[string]float64, ...)
// that miss the interface fast paths above.
func fromGoReflect(v any, path []string) (Value, error) {
	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null{}, nil
		}
		return fromGo(rv.Elem().Interface(), path)
	case reflect.Slice, reflect.Array:
		seq := make(Sequence, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			ev, err := fromGo(rv.Index(i).Interface(), append(path, fmt.Sprintf("[%d]", i)))
			if err != nil {
				return nil, err
			}
			seq[i] = ev
		}
		return seq, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, errors.New(errors.PhaseSerialize, errors.KindUnsupportedValue).
				Path(path...).
				GoType(rv.Type().String()).
				Detail("mapping keys must be strings").
				Build()
		}
		m := make(Mapping, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key().String()
			ev, err := fromGo(iter.Value().Interface(), append(path, k))
			if err != nil {
				return nil, err
			}
			m[k] = ev
		}
		return m, nil
	}

	return nil, errors.UnsupportedValue(path, fmt.Sprintf("%T", v))
}

func number(f float64, path []string) (Value, error) {
	// NaN and infinities have no text representation in the model.
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, errors.New(errors.PhaseSerialize, errors.KindUnsupportedValue).
			Path(path...).
			GoType("float64").
			Detail("non-finite number %v", f).
			Build()
	}
	return Number(f), nil
}

// ToGo converts a model value into plain Go values (nil, bool, float64,
// string, []any, map[string]any).
func ToGo(v Value) any {
	switch t := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(t)
	case Number:
		return float64(t)
	case String:
		return string(t)
	case Sequence:
		out := make([]any, len(t))
		for i, elem := range t {
			out[i] = ToGo(elem)
		}
		return out
	case Mapping:
		out := make(map[string]any, len(t))
		for k, elem := range t {
			out[k] = ToGo(elem)
		}
		return out
	}
	return nil
}

// Keys returns the mapping's keys in sorted order.
func (m Mapping) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
