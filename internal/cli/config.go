package cli

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds the settings an optional config file or SEXPACK_*
// environment variable may supply as defaults for flags the user
// omits on the command line. CLI flags always win over these.
type Config struct {
	Logging DefaultsConfig `mapstructure:"logging"`
	Pack    PackConfig     `mapstructure:"pack"`
}

// DefaultsConfig controls ambient logging behaviour.
type DefaultsConfig struct {
	Level string `mapstructure:"level"`
}

// PackConfig supplies fallback export/import settings.
type PackConfig struct {
	Algorithm  string `mapstructure:"algorithm"`
	Compress   string `mapstructure:"compress"`
	Encryption string `mapstructure:"encryption"`
}

// loadConfig reads an optional config file (if configPath is set) and
// SEXPACK_-prefixed environment variables into a Config. With no
// configPath no file is read, and fields not set by the environment
// stay at zero values; a configPath that cannot be read is an error.
func loadConfig(configPath string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SEXPACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{"logging.level", "pack.algorithm", "pack.compress", "pack.encryption"} {
		_ = v.BindEnv(key)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
