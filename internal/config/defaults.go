package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Defaults are user-level preferences loaded from ~/.config/wren/wren.yml.
// They pre-fill prompts and flags; they never bypass validation.
type Defaults struct {
	Author   string
	Email    string
	License  string
	Features []string
}

// LoadDefaults reads the user defaults file if it exists. A missing file
// is not an error. Environment variables with the WREN_ prefix override
// file values (WREN_AUTHOR, WREN_EMAIL, ...).
func LoadDefaults() (*Defaults, error) {
	v := viper.New()
	v.SetConfigName("wren")
	v.SetConfigType("yaml")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "wren"))
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("WREN")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	return &Defaults{
		Author:   v.GetString("author"),
		Email:    v.GetString("email"),
		License:  v.GetString("license"),
		Features: v.GetStringSlice("features"),
	}, nil
}
