package cart

import (
	"encoding/json"
	"fmt"
)

// snapshot is the persisted wire form of a cart.
type snapshot struct {
	Lines []*Line `json:"lines"`
}

// Snapshot serialises the cart for persistence. This is the explicit
// boundary for any storage the caller wants; the cart itself never touches
// ambient state.
func (c *Cart) Snapshot() ([]byte, error) {
	return json.Marshal(snapshot{Lines: c.lines})
}

// Restore rebuilds a cart from a Snapshot payload.
func Restore(data []byte) (*Cart, error) {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unable to restore cart: %w", err)
	}
	return &Cart{lines: s.Lines}, nil
}
