package id

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Init initializes the Snowflake node with the given node ID.
// Only the first call has an effect.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New generates a new unique, time-ordered int64 ID.
// Falls back to node 0 when Init was never called (tests, tools).
func New() int64 {
	_ = Init(0)
	return node.Generate().Int64()
}

// List is a slice of IDs that travels as a JSON array of strings.
// Snowflake IDs exceed 2^53, so JSON numbers would lose precision in JS clients.
type List []int64

// MarshalJSON encodes each ID as a decimal string
func (l List) MarshalJSON() ([]byte, error) {
	out := make([]string, len(l))
	for i, v := range l {
		out[i] = strconv.FormatInt(v, 10)
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts both quoted and bare integers
func (l *List) UnmarshalJSON(b []byte) error {
	var raw []json.Number
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == nil {
		*l = nil
		return nil
	}
	ids := make(List, len(raw))
	for i, n := range raw {
		v, err := n.Int64()
		if err != nil {
			return fmt.Errorf("invalid id %q: %w", n.String(), err)
		}
		ids[i] = v
	}
	*l = ids
	return nil
}
