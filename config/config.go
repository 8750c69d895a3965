package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// TomlToken maps an API bearer token to a user id. Token issuance is owned
// by the external identity provider; this table is the hand-off point.
type TomlToken struct {
	Token  string `toml:"token"`
	UserId int64  `toml:"user_id"`
}

// TomlProvider holds per-provider ingestion settings
type TomlProvider struct {
	Query    string `toml:"query,omitempty"`
	Endpoint string `toml:"endpoint,omitempty"`
}

// TomlProviders holds the settings for the three supported providers
type TomlProviders struct {
	Guardian TomlProvider `toml:"guardian"`
	NYTimes  TomlProvider `toml:"nytimes"`
	NewsAPI  TomlProvider `toml:"newsapi"`
}

// TomlConfig represents the top-level configuration
type TomlConfig struct {
	Providers TomlProviders `toml:"providers"`
	Tokens    []TomlToken   `toml:"tokens"`
}

func LoadConfig(path string) (*TomlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config TomlConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return &config, nil
}
