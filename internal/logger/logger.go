// Package logger builds the process-wide zap logger.
package logger

import "go.uber.org/zap"

// New returns a development logger unless env is "production".
func New(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
