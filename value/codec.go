package value

import (
	"bytes"
	"encoding/json"

	"github.com/linqs/psl-runtime-go/errors"
)

// Marshal serializes an arbitrary Go value to the canonical JSON text
// exchanged with the engine. The value is first normalized through FromGo,
// so anything outside the shared model fails with a serialization error.
func Marshal(v any) (string, error) {
	mv, err := FromGo(v)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(ToGo(mv))
	if err != nil {
		// FromGo already rejected everything json cannot encode.
		return "", errors.Wrap(errors.PhaseSerialize, errors.KindInvalidData, err, "encode configuration")
	}
	return string(data), nil
}

// MarshalIndent renders a model value as indented JSON for display.
func MarshalIndent(v Value, prefix, indent string) (string, error) {
	data, err := json.MarshalIndent(ToGo(v), prefix, indent)
	if err != nil {
		return "", errors.Wrap(errors.PhaseSerialize, errors.KindInvalidData, err, "encode value")
	}
	return string(data), nil
}

// Unmarshal parses canonical JSON text into a model value.
func Unmarshal(text string) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.InvalidOutput(err)
	}

	// Trailing non-whitespace after the first document is not valid output.
	if dec.More() {
		return nil, errors.New(errors.PhaseDeserialize, errors.KindInvalidOutput).
			Detail("trailing data after JSON document").
			Build()
	}

	v, err := FromGo(raw)
	if err != nil {
		return nil, errors.InvalidOutput(err)
	}
	return v, nil
}
