package core

import (
	"encoding/json"
	"errors"
	"fmt"
)

type (
	// Entry is one shopping day: the total spent and the meat and extra-item
	// portions of it, in whole currency units.
	Entry struct {
		Total int64
		Meat  int64
		Extra int64
	}

	// AverageRecord is the memoised summary of a closed month.
	AverageRecord struct {
		AvgTotal int64
		AvgMeat  int64
		AvgExtra int64
		TotalSum int64
	}
)

var ErrInvalidAmount = errors.New("invalid amount")

// NewEntry builds an entry from the three amounts collected for a day.
func NewEntry(total, meat, extra int64) Entry {
	return Entry{Total: total, Meat: meat, Extra: extra}
}

func (e Entry) Validate() error {
	if e.Total < 0 || e.Meat < 0 || e.Extra < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// MarshalJSON encodes the entry as [total, meat, extra].
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]int64{e.Total, e.Meat, e.Extra})
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw []int64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode entry: %w", err)
	}
	if len(raw) != 3 {
		return fmt.Errorf("decode entry: expected 3 values, got %d", len(raw))
	}
	*e = Entry{Total: raw[0], Meat: raw[1], Extra: raw[2]}
	return nil
}

// MarshalJSON encodes the record as [avgTotal, avgMeat, avgExtra, totalSum].
func (a AverageRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]int64{a.AvgTotal, a.AvgMeat, a.AvgExtra, a.TotalSum})
}

// UnmarshalJSON accepts integer values and, for ledgers written by older
// versions, fractional averages which are rounded to the nearest unit.
func (a *AverageRecord) UnmarshalJSON(data []byte) error {
	var raw []json.Number
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode average: %w", err)
	}
	if len(raw) != 4 {
		return fmt.Errorf("decode average: expected 4 values, got %d", len(raw))
	}
	var vals [4]int64
	for i, n := range raw {
		v, err := RoundNumber(n.String())
		if err != nil {
			return fmt.Errorf("decode average: %w", err)
		}
		vals[i] = v
	}
	*a = AverageRecord{AvgTotal: vals[0], AvgMeat: vals[1], AvgExtra: vals[2], TotalSum: vals[3]}
	return nil
}
