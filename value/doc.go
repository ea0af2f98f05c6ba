// Package value defines the structured-value model shared between callers
// and the embedded inference engine, plus the canonical JSON codec that is
// the only text-boundary crossing.
//
// # Model
//
// The model is a closed variant:
//
//	Type        Go representation
//	─────────────────────────────
//	Null        value.Null
//	Bool        value.Bool
//	Number      value.Number (float64)
//	String      value.String
//	Sequence    value.Sequence ([]Value)
//	Mapping     value.Mapping (map[string]Value)
//
// Configurations and results are both expressed in this model; the bridge
// never inspects their contents.
//
// # Round-trip Law
//
// For every model value v, Unmarshal(Marshal(v)) is structurally equal to v
// (value.Equal). FromGo rejects anything outside the model - channels,
// functions, structs, non-string map keys, non-finite floats - with a
// serialization error naming the path to the offending value.
package value
