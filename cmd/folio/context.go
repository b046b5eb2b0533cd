package main

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/labstack/gommon/log"

	"github.com/joeycatai/folio"
)

type commandContext struct {
	configFlag *string
	logLevel   *string

	configOnce sync.Once
	config     folio.Config
	configErr  error

	loggerOnce sync.Once
	logger     *log.Logger
}

func newCommandContext(configFlag, logLevel *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		logLevel:   logLevel,
	}
}

func (c *commandContext) ensureConfig() (folio.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configErr = folio.LoadConfig(path)
	})
	return c.config, c.configErr
}

func (c *commandContext) log() *log.Logger {
	c.loggerOnce.Do(func() {
		l := log.New("folio")
		l.SetOutput(os.Stderr)
		l.SetHeader("${time_rfc3339} ${level} ${prefix}")
		l.SetLevel(parseLevel(*c.logLevel))
		c.logger = l
	})
	return c.logger
}

func parseLevel(s string) log.Lvl {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}

// openApp loads the config and opens an App with its store.
func (c *commandContext) openApp() (*folio.App, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	a := folio.New(cfg, folio.WithLogger(c.log()))
	if err := a.Open(); err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return a, nil
}
