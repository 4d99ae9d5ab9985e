package config

import (
	_ "embed"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/josephlewis42/lsh/core/alias"
	"github.com/josephlewis42/lsh/core/history"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
)

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

type Configuration struct {
	configFs afero.Fs

	Prompt string `json:"prompt" validate:"required"`
	Color  string `json:"color" validate:"oneof=auto always never"`

	HistoryFile  string `json:"history_file"`
	HistoryLimit int    `json:"history_limit" validate:"gte=1,lte=10000"`

	MaxAliases        int `json:"max_aliases" validate:"gte=1,lte=1024"`
	MaxBackgroundJobs int `json:"max_background_jobs" validate:"gte=1,lte=4096"`

	AppLog   string `json:"app_log"`
	EventLog string `json:"event_log"`

	Aliases []alias.Entry `json:"aliases" validate:"unique=Name,dive"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	if err := validate.Struct(c); err != nil {
		return err
	}

	if len(c.Aliases) > c.MaxAliases {
		return fmt.Errorf("%d aliases defined but max_aliases is %d", len(c.Aliases), c.MaxAliases)
	}

	return nil
}

func (c *Configuration) fs() afero.Fs {
	if c.configFs == nil {
		return afero.NewMemMapFs()
	}
	return c.configFs
}

// Fs gets the filesystem rooted at the configuration directory.
func (c *Configuration) Fs() afero.Fs {
	return c.fs()
}

// OpenHistory loads the command history.
func (c *Configuration) OpenHistory() (*history.History, error) {
	hist := history.New(c.fs(), c.HistoryFile, c.HistoryLimit)
	if err := hist.Load(); err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	return hist, nil
}

// NewAliasTable creates an alias table holding the configured aliases.
func (c *Configuration) NewAliasTable() (*alias.Table, error) {
	table := alias.NewTable(c.MaxAliases)
	if err := table.Load(c.Aliases); err != nil {
		return nil, err
	}
	return table, nil
}

// OpenAppLog opens the application log in an append only state.
func (c *Configuration) OpenAppLog() (afero.File, error) {
	return c.openAppend(c.AppLog)
}

// OpenEventLog opens the event log in an append only state.
func (c *Configuration) OpenEventLog() (afero.File, error) {
	return c.openAppend(c.EventLog)
}

func (c *Configuration) ReadEventLog() (afero.File, error) {
	return c.fs().OpenFile(c.EventLog, os.O_RDONLY, 0600)
}

func (c *Configuration) openAppend(name string) (afero.File, error) {
	if name == "" {
		return nil, os.ErrNotExist
	}
	return c.fs().OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// Default returns the built-in configuration backed by fsys.
func Default(fsys afero.Fs) *Configuration {
	out := defaultConfig()
	out.configFs = fsys
	return out
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
