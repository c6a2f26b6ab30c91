package app

import (
	"errors"

	"github.com/specialistvlad/symparam/internal/sweep"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ModelPath  string   // hcl model files
	ParamPaths []string // csv and hcl parameter files

	StorePath string // bbolt file of saved parameter sets; empty keeps them in the App
	SaveSet   string
	LoadSet   string

	Sweep    *sweep.Spec
	PlotPath string

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ModelPath == "" {
		return nil, errors.New("ModelPath is a required configuration field and cannot be empty")
	}
	if cfg.PlotPath != "" && cfg.Sweep == nil {
		return nil, errors.New("a plot can only be drawn for a sweep")
	}
	return &cfg, nil
}
