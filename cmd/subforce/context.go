package main

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"subforce/internal/batch"
	"subforce/internal/config"
	"subforce/internal/logging"
	"subforce/internal/services/mediainfo"
	"subforce/internal/services/mkvpropedit"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		if exists {
			c.configPath = resolved
		}
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
		if err := cfg.EnsureDirectories(); err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:   cfg.Logging.Level,
			Format:  cfg.Logging.Format,
			LogFile: cfg.LogFilePath(),
		})
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// collaborators builds the external tool clients from configuration.
func (c *commandContext) collaborators(logger *slog.Logger) (batch.TrackExtractor, batch.FlagEditor) {
	cfg := c.config
	timeout := time.Duration(cfg.Tools.TimeoutSeconds) * time.Second
	extractor := mediainfo.NewClient(cfg.Tools.Mediainfo, cfg.Tools.Mkvinfo, timeout, logger)
	editor := mkvpropedit.NewEditor(cfg.Tools.Mkvpropedit, timeout, logger)
	return extractor, editor
}
