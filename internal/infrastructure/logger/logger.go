// Package logger builds the zap logger used throughout the service.
package logger

import "go.uber.org/zap"

// New returns a production zap logger, or a development logger when
// env is "development" (louder, human-readable console encoding).
func New(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
