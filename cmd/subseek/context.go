package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"subseek/internal/config"
	"subseek/internal/logging"
	"subseek/internal/metrics"
)

type globalFlags struct {
	configPath  string
	debug       bool
	logLevel    string
	metricsFile string
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	metricsOnce sync.Once
	metrics     *metrics.Recorder
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(strings.TrimSpace(c.flags.configPath))
		if err != nil {
			c.configErr = err
			return
		}
		if c.flags.debug {
			cfg.Logging.Debug = true
		}
		if level := strings.TrimSpace(c.flags.logLevel); level != "" {
			cfg.Logging.Level = strings.ToLower(level)
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// ensureMetrics returns nil unless --metrics-file was given.
func (c *commandContext) ensureMetrics() *metrics.Recorder {
	c.metricsOnce.Do(func() {
		if strings.TrimSpace(c.flags.metricsFile) != "" {
			c.metrics = metrics.NewRecorder()
		}
	})
	return c.metrics
}

func (c *commandContext) flushMetrics(logger *slog.Logger) {
	if c.metrics == nil {
		return
	}
	path := strings.TrimSpace(c.flags.metricsFile)
	if expanded, err := config.ExpandPath(path); err == nil {
		path = expanded
	}
	if err := c.metrics.WriteTextfile(path); err != nil {
		logging.WarnWithContext(logger, "metrics textfile not written", "metrics_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check that the --metrics-file directory is writable"),
			logging.String(logging.FieldImpact, "metrics for this run are lost"),
		)
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
