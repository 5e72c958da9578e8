// Package logging builds the application zap logger
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New returns a JSON logger for production and a console logger otherwise
func New(level, environment string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if environment == "production" {
		cfg = zap.NewProductionConfig()
	}

	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg.Level = lvl
	return cfg.Build()
}
