package utils

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/sirupsen/logrus"
)

var Logger = logrus.New()

// InitLogger configures Logger from LOG_LEVEL, APP_ENV and LOG_DIR. In
// production the output goes to LOG_DIR/app.log (default "logs"); otherwise
// to stdout.
func InitLogger() {
	Logger.SetReportCaller(true)

	Logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			filename := filepath.Base(f.File)
			return "", filename + ":" + strconv.Itoa(f.Line)
		},
	})

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Logger.SetLevel(level)

	Logger.SetOutput(logOutput(os.Getenv("APP_ENV")))
}

func logOutput(env string) io.Writer {
	if env != "production" {
		return os.Stdout
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		Logger.WithError(err).Warn("Failed to create logs directory, using stdout instead")
		return os.Stdout
	}

	file, err := os.OpenFile(filepath.Join(logDir, "app.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		Logger.WithError(err).Warn("Failed to log to file, using stdout instead")
		return os.Stdout
	}
	return file
}
