package tui

import (
	"context"

	"github.com/Veraticus/safe-to-spend/internal/budget"
	"github.com/Veraticus/safe-to-spend/internal/report"
	"github.com/Veraticus/safe-to-spend/internal/tui/themes"
)

// ReportLoader builds the report for a range preset.
type ReportLoader func(ctx context.Context, preset budget.RangePreset) (*report.Report, error)

// Config holds TUI configuration.
type Config struct {
	Theme  themes.Theme
	Loader ReportLoader
	Range  budget.RangePreset
	Width  int
	Height int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:  themes.Default,
		Range:  budget.Last8Weeks,
		Width:  100,
		Height: 30,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithRange sets the initial range preset.
func WithRange(preset budget.RangePreset) Option {
	return func(c *Config) {
		c.Range = preset
	}
}
