package event

import (
	"encoding/json"
	"fmt"
)

// DecodePayload returns the payload as T. In-process publishes carry the struct itself;
// payloads read back from the journal are maps and take a JSON round trip.
func DecodePayload[T any](input interface{}) (T, error) {
	if v, ok := input.(T); ok {
		return v, nil
	}
	if v, ok := input.(*T); ok && v != nil {
		return *v, nil
	}

	var result T
	data, err := json.Marshal(input)
	if err != nil {
		return result, fmt.Errorf("failed to encode payload: %w", err)
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf("failed to decode payload as %T: %w", result, err)
	}
	return result, nil
}
