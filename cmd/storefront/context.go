package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"storefront/internal/api"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/logging"
)

type commandContext struct {
	configFlag *string
	formatFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	store    *catalog.Store
	services *api.Services
}

func newCommandContext(configFlag, formatFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		formatFlag: formatFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

// openStore opens the catalog once per invocation.
func (c *commandContext) openStore() (*catalog.Store, error) {
	if c.store != nil {
		return c.store, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := catalog.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	c.store = store
	return store, nil
}

// ensureServices wires the same service layer the daemon serves.
func (c *commandContext) ensureServices() (*api.Services, error) {
	if c.services != nil {
		return c.services, nil
	}
	store, err := c.openStore()
	if err != nil {
		return nil, err
	}
	svcs, err := api.NewServices(c.config, store, c.logger())
	if err != nil {
		return nil, err
	}
	c.services = svcs
	return svcs, nil
}

// logger reports warnings on stderr so they do not mix with command output.
func (c *commandContext) logger() *slog.Logger {
	logger, err := logging.New(logging.Options{Level: "warn", Format: "console", OutputPaths: []string{"stderr"}})
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

func (c *commandContext) close() error {
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	c.services = nil
	return err
}

func (c *commandContext) format() string {
	if c.formatFlag == nil {
		return formatAuto
	}
	return *c.formatFlag
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
