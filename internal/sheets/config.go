// Package sheets exports budget reports to Google Sheets.
package sheets

import (
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/safe-to-spend/internal/common"
)

// Config holds the configuration for the Google Sheets writer.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
	SpreadsheetID      string // Existing spreadsheet; a new one is created when empty
	SpreadsheetName    string
	TimeZone           string
	Endpoint           string // API endpoint override
	RetryAttempts      int
	RetryDelay         time.Duration
	EnableFormatting   bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SpreadsheetName:  "Budget Report",
		EnableFormatting: true,
		TimeZone:         "America/New_York",
		RetryAttempts:    3,
		RetryDelay:       time.Second,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	hasOAuth := c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
	hasServiceAccount := c.ServiceAccountPath != ""

	var err error
	switch {
	case !hasOAuth && !hasServiceAccount:
		err = errors.New("no authentication method configured")
	case hasOAuth && hasServiceAccount:
		err = errors.New("multiple authentication methods configured; use either OAuth2 or service account")
	case c.RetryAttempts < 0:
		err = errors.New("retry attempts cannot be negative")
	case c.RetryDelay < 0:
		err = errors.New("retry delay cannot be negative")
	}
	if err != nil {
		return fmt.Errorf("%w: sheets: %w", common.ErrInvalidConfig, err)
	}
	return nil
}
