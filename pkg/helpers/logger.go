package helpers

import (
	"os"

	"github.com/sirupsen/logrus"
)

// fieldsHook stamps every entry with the process identity so lines from
// the API, the email worker and the batch commands can be told apart.
type fieldsHook struct{ fields logrus.Fields }

func (h fieldsHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h fieldsHook) Fire(e *logrus.Entry) error {
	for k, v := range h.fields {
		if _, ok := e.Data[k]; !ok {
			e.Data[k] = v
		}
	}
	return nil
}

// NewLogger creates a configured Logrus logger. level overrides the env
// default (debug in development, info elsewhere) when it parses.
func NewLogger(appName, env, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if env == "development" {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if level != "" {
		if lvl, err := logrus.ParseLevel(level); err == nil {
			logger.SetLevel(lvl)
		} else {
			logger.WithField("level", level).Warn("unknown LOG_LEVEL; keeping default")
		}
	}
	logger.AddHook(fieldsHook{fields: logrus.Fields{"app": appName, "env": env}})
	logger.Debug("logger initialized")
	return logger
}
