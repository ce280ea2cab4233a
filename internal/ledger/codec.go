package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Encode renders the ledger in its persisted JSON form:
// {"weekly": {"April 2019": [[t,m,e], ...]}, "average": {"April 2019": [at,am,ae,sum]}}.
func Encode(l *Ledger) ([]byte, error) {
	b, err := json.Marshal(l.Normalize())
	if err != nil {
		return nil, fmt.Errorf("encode ledger: %w", err)
	}
	return b, nil
}

// Decode parses the persisted JSON form. Both tables may be absent.
func Decode(data []byte) (*Ledger, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("decode ledger: empty document")
	}
	var l Ledger
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("decode ledger: %w", err)
	}
	for k, entries := range l.Weekly {
		if len(entries) == 0 {
			return nil, fmt.Errorf("decode ledger: %s has no entries", k)
		}
	}
	return l.Normalize(), nil
}
