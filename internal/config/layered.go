package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "SHIPSIM"

// LoadLayered merges base (or the defaults), the YAML file at path when one
// is given, and SHIPSIM_* environment variables, in increasing precedence.
// Nested keys use underscores: SHIPSIM_ENVIRONMENT_GRAVITY.
func LoadLayered(path string, base *Config) (*Config, error) {
	if base == nil {
		base = DefaultConfig()
	}

	v := viper.New()
	if err := setDefaults(v, base); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := base.Clone()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every leaf of base as a viper default, so that
// AutomaticEnv knows which keys exist.
func setDefaults(v *viper.Viper, base *Config) error {
	data, err := yaml.Marshal(base)
	if err != nil {
		return err
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return err
	}
	flatten(v, "", tree)
	return nil
}

func flatten(v *viper.Viper, prefix string, tree map[string]any) {
	for k, val := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := val.(map[string]any); ok {
			flatten(v, key, sub)
			continue
		}
		v.SetDefault(key, val)
	}
}
