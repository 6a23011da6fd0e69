// Package logging configures the process-wide logrus logger once at
// startup.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Configure sets the standard logger's format and level. debug enables
// Debug-level output (the WebSocket handler's per-error messages); the
// entrypoint passes false.
func Configure(debug bool) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if debug {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}
