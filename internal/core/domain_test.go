package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestEntryValidate(t *testing.T) {
	cases := []struct {
		e  Entry
		ok bool
	}{
		{NewEntry(123, 23, 23), true},
		{NewEntry(0, 0, 0), true},
		{NewEntry(-1, 0, 0), false},
		{NewEntry(10, -1, 0), false},
		{NewEntry(10, 0, -1), false},
	}
	for i, tc := range cases {
		err := tc.e.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("case %d expected ErrInvalidAmount, got %v", i, err)
		}
	}
}

func TestEntryJSON(t *testing.T) {
	b, err := json.Marshal(NewEntry(123, 23, 0))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "[123,23,0]" {
		t.Fatalf("unexpected encoding %s", b)
	}

	var e Entry
	if err := json.Unmarshal([]byte("[456, 23, 34]"), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if e != NewEntry(456, 23, 34) {
		t.Fatalf("unexpected entry %+v", e)
	}

	for _, bad := range []string{`[1,2]`, `[1,2,3,4]`, `{"total":1}`, `[1.5,2,3]`, `"x"`} {
		if err := json.Unmarshal([]byte(bad), &e); err == nil {
			t.Fatalf("%s expected error", bad)
		}
	}
}

func TestAverageRecordJSON(t *testing.T) {
	rec := AverageRecord{AvgTotal: 234, AvgMeat: 15, AvgExtra: 27, TotalSum: 702}
	b, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "[234,15,27,702]" {
		t.Fatalf("unexpected encoding %s", b)
	}

	var got AverageRecord
	if err := json.Unmarshal(b, &got); err != nil || got != rec {
		t.Fatalf("round trip: got %+v err=%v", got, err)
	}

	// older ledgers stored unrounded averages
	if err := json.Unmarshal([]byte("[234.0, 15.333333, 26.666667, 702]"), &got); err != nil {
		t.Fatalf("unmarshal fractional: %v", err)
	}
	if got != rec {
		t.Fatalf("expected fractional values rounded, got %+v", got)
	}

	if err := json.Unmarshal([]byte("[1,2,3]"), &got); err == nil {
		t.Fatalf("expected error for short record")
	}
}

func TestErrorKinds(t *testing.T) {
	var err error = &CorruptStateError{Path: "data.json", Err: errors.New("boom")}
	if !errors.Is(err, ErrCorruptState) {
		t.Fatalf("expected ErrCorruptState")
	}
	var cse *CorruptStateError
	if !errors.As(err, &cse) || cse.Path != "data.json" {
		t.Fatalf("expected CorruptStateError with path")
	}

	err = &MissingMonthError{Month: MonthKey{Year: 2019, Month: time.April}, Table: "weekly"}
	if !errors.Is(err, ErrMissingMonth) {
		t.Fatalf("expected ErrMissingMonth")
	}
	if err.Error() != "April 2019 has no weekly record" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
