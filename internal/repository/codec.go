package repository

import (
	"encoding/json"
	"fmt"

	"github.com/sakif/socialhub/internal/model"
)

// EncodeState serializes the state blob. Nil collections are written as []
// so a reload never has to guess between "empty" and "missing".
func EncodeState(state *model.State) ([]byte, error) {
	if state == nil {
		return nil, fmt.Errorf("repository: encoding nil state")
	}
	cp := *state
	cp.Normalize()
	b, err := json.Marshal(&cp)
	if err != nil {
		return nil, fmt.Errorf("repository: encoding state: %w", err)
	}
	return b, nil
}

// DecodeState is the inverse of EncodeState.
func DecodeState(b []byte) (*model.State, error) {
	var s model.State
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("repository: decoding state: %w", err)
	}
	s.Normalize()
	return &s, nil
}
