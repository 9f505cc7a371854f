package cli

import (
	"fmt"

	"github.com/timon-db/timon/internal/config"
	"github.com/timon-db/timon/internal/timon"
)

// loadConfig resolves Timon's configuration for the current working
// directory, the same way every subcommand other than version needs it.
func loadConfig() (*config.Config, error) {
	return config.LoadConfig()
}

// ensureCatalog loads configuration and opens the catalog, returning the
// config for subcommands that also need bucket settings.
func ensureCatalog() (*config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if _, env := timon.Init(cfg.Storage.Path); !env.IsOK() {
		return nil, fmt.Errorf("%s", env.Message)
	}
	return cfg, nil
}
