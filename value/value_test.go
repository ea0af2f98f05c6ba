package value

import (
	stderrors "errors"
	"math"
	"testing"

	"github.com/linqs/psl-runtime-go/errors"
)

func TestFromGo_Scalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"nil", nil, Null{}},
		{"bool", true, Bool(true)},
		{"string", "hello", String("hello")},
		{"int", 42, Number(42)},
		{"int64", int64(-7), Number(-7)},
		{"uint8", uint8(255), Number(255)},
		{"float64", 0.5, Number(0.5)},
		{"float32", float32(2), Number(2)},
		{"model value passthrough", String("x"), String("x")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromGo(tt.in)
			if err != nil {
				t.Fatalf("FromGo(%v): %v", tt.in, err)
			}
			if !Equal(got, tt.want) {
				t.Errorf("FromGo(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFromGo_Composite(t *testing.T) {
	in := map[string]any{
		"rules": []any{
			map[string]any{"text": "1.0: Friends(A, B) -> Likes(A)", "weight": 1.0},
			"hard rule",
		},
		"options": map[string]any{
			"runtime.log.level": "INFO",
			"inference":         true,
			"iterations":        100,
		},
		"comment": nil,
	}

	got, err := FromGo(in)
	if err != nil {
		t.Fatalf("FromGo: %v", err)
	}

	want := Mapping{
		"rules": Sequence{
			Mapping{"text": String("1.0: Friends(A, B) -> Likes(A)"), "weight": Number(1.0)},
			String("hard rule"),
		},
		"options": Mapping{
			"runtime.log.level": String("INFO"),
			"inference":         Bool(true),
			"iterations":        Number(100),
		},
		"comment": Null{},
	}
	if !Equal(got, want) {
		t.Errorf("FromGo = %v, want %v", got, want)
	}
}

func TestFromGo_TypedCollections(t *testing.T) {
	got, err := FromGo(map[string]any{
		"names":   []string{"alice", "bob"},
		"weights": map[string]float64{"w": 1.5},
	})
	if err != nil {
		t.Fatalf("FromGo: %v", err)
	}

	want := Mapping{
		"names":   Sequence{String("alice"), String("bob")},
		"weights": Mapping{"w": Number(1.5)},
	}
	if !Equal(got, want) {
		t.Errorf("FromGo = %v, want %v", got, want)
	}
}

func TestFromGo_Unsupported(t *testing.T) {
	tests := []struct {
		name string
		in   any
	}{
		{"channel", make(chan int)},
		{"func", func() {}},
		{"struct", struct{ X int }{1}},
		{"non-string map key", map[int]any{1: "x"}},
		{"NaN", math.NaN()},
		{"infinity", math.Inf(1)},
		{"nested channel", map[string]any{"db": map[string]any{"handle": make(chan int)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromGo(tt.in)
			if err == nil {
				t.Fatalf("FromGo(%v) succeeded, want serialization error", tt.in)
			}
			if !errors.IsSerializationError(err) {
				t.Errorf("error %v is not a serialization error", err)
			}
		})
	}
}

func TestFromGo_UnsupportedPath(t *testing.T) {
	_, err := FromGo(map[string]any{"outer": []any{map[string]any{"bad": make(chan int)}}})
	if err == nil {
		t.Fatal("expected error")
	}

	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("error %v is not a structured bridge error", err)
	}
	if len(e.Path) == 0 {
		t.Errorf("error %v carries no path to the offending value", err)
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"null", Null{}, Null{}, true},
		{"numbers", Number(1), Number(1), true},
		{"number mismatch", Number(1), Number(2), false},
		{"kind mismatch", Number(1), String("1"), false},
		{"sequences", Sequence{Number(1), String("a")}, Sequence{Number(1), String("a")}, true},
		{"sequence length", Sequence{Number(1)}, Sequence{}, false},
		{"mappings", Mapping{"a": Number(1)}, Mapping{"a": Number(1)}, true},
		{"mapping key", Mapping{"a": Number(1)}, Mapping{"b": Number(1)}, false},
		{"nested", Mapping{"a": Sequence{Mapping{"b": Null{}}}}, Mapping{"a": Sequence{Mapping{"b": Null{}}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMappingKeys(t *testing.T) {
	m := Mapping{"c": Null{}, "a": Null{}, "b": Null{}}
	keys := m.Keys()
	want := []string{"a", "b", "c"}
	if len(keys) != len(want) {
		t.Fatalf("Keys() = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}
