package main

import (
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"shotexport/internal/config"
	"shotexport/internal/logging"
	"shotexport/internal/timeline"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) configFlagValue() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, _, err := config.Load(c.configFlagValue())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
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

// timelineSelection holds the flags shared by commands that read a snapshot.
type timelineSelection struct {
	snapshot string
	project  string
	sequence string
	track    string
}

func (s *timelineSelection) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.snapshot, "snapshot", "s", "", "Timeline snapshot JSON file")
	cmd.Flags().StringVar(&s.project, "project", "", "Project name")
	cmd.Flags().StringVar(&s.sequence, "sequence", "", "Sequence name")
	cmd.Flags().StringVar(&s.track, "track", "", "Main track name")
}

func (s *timelineSelection) load() (timeline.Host, error) {
	path := strings.TrimSpace(s.snapshot)
	if path == "" {
		return nil, errors.New("--snapshot is required")
	}
	if strings.TrimSpace(s.project) == "" || strings.TrimSpace(s.sequence) == "" || strings.TrimSpace(s.track) == "" {
		return nil, errors.New("--project, --sequence and --track are required")
	}
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	return timeline.LoadSnapshot(expanded)
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
