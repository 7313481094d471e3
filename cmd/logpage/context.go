package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/TimelordUK/logpage/internal/catalog"
	"github.com/TimelordUK/logpage/internal/config"
	"github.com/TimelordUK/logpage/internal/logging"
	"github.com/TimelordUK/logpage/internal/pager"
)

type commandContext struct {
	configFlag *string
	logFlags   *[]string
	verbose    *bool
	stderr     io.Writer

	configOnce sync.Once
	config     *config.Config
	logger     *slog.Logger
	configErr  error

	readerOnce sync.Once
	reader     *pager.Reader
	readerErr  error
}

func newCommandContext(configFlag *string, logFlags *[]string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		logFlags:   logFlags,
		verbose:    verbose,
		stderr:     os.Stderr,
	}
}

// ensureConfig loads the config file, appends --log sources and builds the
// process logger.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}

		if c.logFlags != nil {
			for _, raw := range *c.logFlags {
				src, err := config.ParseSource(raw)
				if err != nil {
					c.configErr = err
					return
				}
				cfg.AddSource(src.ID, src.Path)
			}
		}

		if err := cfg.Validate(); err != nil {
			c.configErr = fmt.Errorf("invalid configuration: %w", err)
			return
		}

		opts := logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format}
		if c.verbose != nil && *c.verbose {
			opts.Level = "debug"
		}
		logger, err := logging.New(opts, c.stderr)
		if err != nil {
			c.configErr = err
			return
		}

		c.config = cfg
		c.logger = logger
	})
	return c.config, c.configErr
}

// ensureReader indexes every registered log file once per process.
func (c *commandContext) ensureReader() (*pager.Reader, error) {
	c.readerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.readerErr = err
			return
		}
		cat, err := catalog.New(cfg.Logs, c.logger)
		if err != nil {
			c.readerErr = err
			return
		}
		c.reader = pager.NewReader(cat,
			pager.WithMaxResults(cfg.Search.MaxResults),
			pager.WithLogger(c.logger),
		)
	})
	return c.reader, c.readerErr
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
