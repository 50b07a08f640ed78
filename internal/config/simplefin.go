package config

import (
	"os"

	"github.com/Veraticus/safe-to-spend/internal/simplefin"
	"github.com/spf13/viper"
)

// DefaultSimpleFINStatePath holds the claimed SimpleFIN access URL.
const DefaultSimpleFINStatePath = "~/.local/share/budget/simplefin_auth.json"

// LoadSimpleFINConfig reads simplefin.* keys with SIMPLEFIN_* environment
// fallbacks.
func LoadSimpleFINConfig(v *viper.Viper) (simplefin.Config, error) {
	cfg := simplefin.Config{
		Token:     firstNonEmpty(v.GetString("simplefin.token"), os.Getenv("SIMPLEFIN_TOKEN")),
		AccessURL: firstNonEmpty(v.GetString("simplefin.access_url"), os.Getenv("SIMPLEFIN_ACCESS_URL")),
		StatePath: ExpandPath(firstNonEmpty(v.GetString("simplefin.state_path"), DefaultSimpleFINStatePath)),
		Timeout:   v.GetDuration("simplefin.timeout"),
	}
	if err := cfg.Validate(); err != nil {
		return simplefin.Config{}, err
	}
	return cfg, nil
}
