// Package config turns viper settings and environment variables into the
// typed configuration each component expects.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/safe-to-spend/internal/budget"
	"github.com/Veraticus/safe-to-spend/internal/common"
	"github.com/Veraticus/safe-to-spend/internal/notify"
	"github.com/Veraticus/safe-to-spend/internal/ofx"
	"github.com/spf13/viper"
)

// Defaults for settings that are not configured.
const (
	DefaultUser         = "default"
	DefaultDatabasePath = "~/.local/share/budget/budget.db"
	DefaultExchange     = "budget.alerts"
	DefaultQueue        = "over_budget"
)

// DatabasePath returns the expanded SQLite path.
func DatabasePath(v *viper.Viper) string {
	p := v.GetString("database.path")
	if p == "" {
		p = DefaultDatabasePath
	}
	return ExpandPath(p)
}

// User returns the user all data is scoped to.
func User(v *viper.Viper) string {
	if u := strings.TrimSpace(v.GetString("user")); u != "" {
		return u
	}
	return DefaultUser
}

// WeekStart returns the configured week start and whether one was set.
// Stored per-user settings take precedence over this value.
func WeekStart(v *viper.Viper) (time.Weekday, bool, error) {
	s := v.GetString("budget.week_start")
	if s == "" {
		return time.Sunday, false, nil
	}
	d, err := budget.ParseWeekday(s)
	if err != nil {
		return time.Sunday, false, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	return d, true, nil
}

// LoadNotifyConfig reads the amqp.* keys, falling back to AMQP_URL.
func LoadNotifyConfig(v *viper.Viper) (notify.Config, error) {
	cfg := notify.Config{
		URL:      v.GetString("amqp.url"),
		Exchange: v.GetString("amqp.exchange"),
		Queue:    v.GetString("amqp.queue"),
	}
	if cfg.URL == "" {
		cfg.URL = os.Getenv("AMQP_URL")
	}
	if cfg.Exchange == "" {
		cfg.Exchange = DefaultExchange
	}
	if cfg.Queue == "" {
		cfg.Queue = DefaultQueue
	}
	if err := cfg.Validate(); err != nil {
		return notify.Config{}, err
	}
	return cfg, nil
}

// CategoryRules reads ofx.category_rules, a map of payee substring to
// category. Rules are applied in key order.
func CategoryRules(v *viper.Viper) []ofx.CategoryRule {
	raw := v.GetStringMapString("ofx.category_rules")
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rules := make([]ofx.CategoryRule, 0, len(keys))
	for _, k := range keys {
		rules = append(rules, ofx.CategoryRule{Match: k, Category: raw[k]})
	}
	return rules
}
