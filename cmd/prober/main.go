package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

func main() {
	logger := newLogger()

	cmd := newRootCmd(env{
		fs:        afero.NewOsFs(),
		stdout:    os.Stdout,
		log:       logger,
		newProber: newPinger,
	})
	if err := cmd.Execute(); err != nil {
		logger.WithError(err).Error("prober failed")
		os.Exit(1)
	}
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logger
}
