package config

import (
	"lendpool/core"

	configUtil "github.com/fox-one/pkg/config"
)

const defaultVault = "lendpool-vault"

// Load load config file, LENDPOOL_* environment variables override its values
func Load(configFile string, config *core.Config) error {
	configUtil.AutomaticLoadEnv("LENDPOOL")
	if err := configUtil.LoadYaml(configFile, config); err != nil {
		return err
	}

	defaults(config)
	return nil
}

func defaults(config *core.Config) {
	if config.App.Vault == "" {
		config.App.Vault = defaultVault
	}

	if config.Oracle.CacheTTL <= 0 {
		config.Oracle.CacheTTL = 60
	}
}
