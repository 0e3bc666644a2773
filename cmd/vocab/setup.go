package main

import (
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/joseph-ayodele/screenshot-vocab/internal/common"
)

const (
	metaConfig = "config"
	metaLogger = "logger"
)

// setup loads configuration and installs the logger before any command runs.
func setup(c *cli.Context) error {
	cfg, err := common.LoadConfig(c.String("config"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if v := c.String("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v := c.String("log-format"); v != "" {
		cfg.Log.Format = v
	}
	logger := common.NewLogger(cfg.Log)
	c.App.Metadata = map[string]interface{}{metaConfig: cfg, metaLogger: logger}
	return nil
}

func appConfig(c *cli.Context) *common.Config {
	return c.App.Metadata[metaConfig].(*common.Config)
}

func appLogger(c *cli.Context) *slog.Logger {
	return c.App.Metadata[metaLogger].(*slog.Logger)
}

// configError turns a configuration problem into exit code 1.
func configError(err error) error {
	return cli.Exit(fmt.Sprintf("configuration: %v", err), 1)
}
