package core

import (
	"errors"
	"fmt"
)

var (
	ErrCorruptState = errors.New("corrupt state")
	ErrMissingMonth = errors.New("missing month")
)

// CorruptStateError reports a persisted file that exists but cannot be parsed.
type CorruptStateError struct {
	Path string
	Err  error
}

func (e *CorruptStateError) Error() string {
	return fmt.Sprintf("corrupt state in %s: %v", e.Path, e.Err)
}

func (e *CorruptStateError) Unwrap() error { return e.Err }

func (e *CorruptStateError) Is(target error) bool { return target == ErrCorruptState }

// MissingMonthError reports a month absent from the weekly or average table.
type MissingMonthError struct {
	Month MonthKey
	Table string
}

func (e *MissingMonthError) Error() string {
	return fmt.Sprintf("%s has no %s record", e.Month, e.Table)
}

func (e *MissingMonthError) Is(target error) bool { return target == ErrMissingMonth }
