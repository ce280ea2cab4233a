// Package settings persists the user's currency, diet and monthly goal.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"

	"shoppingstats/internal/core"
)

var ErrNotFound = errors.New("settings not found")

// Settings mirrors settings.json. Values are kept as typed by the user.
type Settings struct {
	Currency   string `json:"currency" validate:"required"`
	Vegetarian string `json:"vegetarian?" validate:"required,oneof=yes no"`
	Goal       string `json:"goal" validate:"required,number"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Defaults fill keys missing from older settings files.
func Defaults() Settings {
	return Settings{Vegetarian: "no"}
}

func (s Settings) Validate() error {
	norm := s
	norm.Vegetarian = strings.ToLower(strings.TrimSpace(s.Vegetarian))
	if err := validate.Struct(norm); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// IsVegetarian reports whether meat spending should be skipped.
func (s Settings) IsVegetarian() bool {
	return strings.EqualFold(strings.TrimSpace(s.Vegetarian), "yes")
}

// GoalAmount is the monthly goal as a number.
func (s Settings) GoalAmount() (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s.Goal), 10, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("goal %q is not a whole number: %w", s.Goal, core.ErrInvalidAmount)
	}
	return v, nil
}

// Load reads settings from path. A missing file returns ErrNotFound so the
// caller can run the first-time setup.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Settings{}, ErrNotFound
	}
	if err != nil {
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, &core.CorruptStateError{Path: path, Err: err}
	}
	if err := mergo.Merge(&s, Defaults()); err != nil {
		return Settings{}, fmt.Errorf("apply settings defaults: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, &core.CorruptStateError{Path: path, Err: err}
	}
	return s, nil
}

// Save writes s to path, replacing the previous file.
func Save(path string, s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
