package value

import (
	"strings"
	"testing"

	"github.com/linqs/psl-runtime-go/errors"
)

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		v    Value
	}{
		{"null", Null{}},
		{"true", Bool(true)},
		{"false", Bool(false)},
		{"zero", Number(0)},
		{"integer", Number(42)},
		{"negative", Number(-17)},
		{"fraction", Number(0.25)},
		{"large integer", Number(1 << 53)},
		{"empty string", String("")},
		{"string", String("Friends(A, B) -> Likes(A)")},
		{"unicode string", String("köln ∧ 東京")},
		{"empty sequence", Sequence{}},
		{"empty mapping", Mapping{}},
		{
			"nested",
			Mapping{
				"rules": Sequence{
					Mapping{"text": String("r1"), "weight": Number(5)},
					Mapping{"text": String("r2"), "squared": Bool(false)},
				},
				"predicates": Mapping{
					"Likes": Mapping{"arity": Number(1), "targets": Sequence{String("likes.txt")}},
				},
				"notes": Null{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := Marshal(tt.v)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}

			got, err := Unmarshal(text)
			if err != nil {
				t.Fatalf("Unmarshal(%q): %v", text, err)
			}

			if !Equal(got, tt.v) {
				t.Errorf("round trip = %v, want %v (text %q)", got, tt.v, text)
			}
		})
	}
}

func TestMarshal_GoValues(t *testing.T) {
	text, err := Marshal(map[string]any{"a": 1, "b": []any{true, nil}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	got, err := Unmarshal(text)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	want := Mapping{"a": Number(1), "b": Sequence{Bool(true), Null{}}}
	if !Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMarshal_Unsupported(t *testing.T) {
	_, err := Marshal(map[string]any{"handle": make(chan int)})
	if err == nil {
		t.Fatal("expected serialization error")
	}
	if !errors.IsSerializationError(err) {
		t.Errorf("error %v is not a serialization error", err)
	}
}

func TestUnmarshal_Invalid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"garbage", "not json at all"},
		{"truncated", `{"status": "ok"`},
		{"trailing data", `{"a": 1} {"b": 2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal(tt.text)
			if err == nil {
				t.Fatalf("Unmarshal(%q) succeeded, want deserialization error", tt.text)
			}
			if !errors.IsDeserializationError(err) {
				t.Errorf("error %v is not a deserialization error", err)
			}
		})
	}
}

func TestMarshalIndent(t *testing.T) {
	text, err := MarshalIndent(Mapping{"status": String("ok")}, "", "    ")
	if err != nil {
		t.Fatalf("MarshalIndent: %v", err)
	}

	if !strings.Contains(text, "\n") {
		t.Errorf("output %q is not indented", text)
	}
	if !strings.Contains(text, `"status": "ok"`) {
		t.Errorf("output %q does not contain the mapping entry", text)
	}
}
