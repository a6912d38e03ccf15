package logger

import (
	"os"

	"go.uber.org/zap"
)

// InitLogger builds the process logger. STATE=dev switches to the human
// readable development encoder.
func InitLogger() (*zap.Logger, error) {
	if os.Getenv("STATE") == "dev" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
