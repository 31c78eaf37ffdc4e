package logging

import (
	"fmt"
	"log/slog"

	"github.com/go-co-op/gocron/v2"
)

// GocronAdapter routes gocron's internal logging through slog.
type GocronAdapter struct {
	logger *slog.Logger
}

// NewGocronAdapter creates a gocron logger backed by the given slog logger.
func NewGocronAdapter(logger *slog.Logger) gocron.Logger {
	return &GocronAdapter{logger: logger}
}

func (a *GocronAdapter) Debug(msg string, args ...any) {
	a.logger.Debug(fmt.Sprintf("scheduler: %s", msg), args...)
}

func (a *GocronAdapter) Info(msg string, args ...any) {
	a.logger.Info(fmt.Sprintf("scheduler: %s", msg), args...)
}

func (a *GocronAdapter) Warn(msg string, args ...any) {
	a.logger.Warn(fmt.Sprintf("scheduler: %s", msg), args...)
}

func (a *GocronAdapter) Error(msg string, args ...any) {
	a.logger.Error(fmt.Sprintf("scheduler: %s", msg), args...)
}
