// Package config holds startup settings for the task manager.
package config

import (
	"fmt"
	"strings"

	"task-manager/model"
)

const DefaultExportPath = "tasks-export.md"

// Config is populated from command-line flags.
type Config struct {
	Filter     string
	Sort       string
	ExportPath string
	// DebugLog is a file path; empty disables debug logging.
	DebugLog string
}

func Default() Config {
	vs := model.NewViewState()
	return Config{
		Filter:     string(vs.Filter),
		Sort:       string(vs.SortBy),
		ExportPath: DefaultExportPath,
	}
}

// ViewState parses the initial filter and sort selections.
func (c Config) ViewState() (model.ViewState, error) {
	f, err := model.ParseFilter(c.Filter)
	if err != nil {
		return model.ViewState{}, err
	}
	s, err := model.ParseSortBy(c.Sort)
	if err != nil {
		return model.ViewState{}, err
	}
	return model.ViewState{Filter: f, SortBy: s}, nil
}

func (c Config) Validate() error {
	if _, err := c.ViewState(); err != nil {
		return err
	}
	if strings.TrimSpace(c.ExportPath) == "" {
		return fmt.Errorf("export path must not be empty")
	}
	return nil
}
