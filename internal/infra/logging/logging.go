package logging

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// SetupJSON points the standard logrus logger at stdout with JSON output.
// An unknown level falls back to info.
func SetupJSON(level string) {
	log.SetOutput(os.Stdout)
	log.SetFormatter(&log.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})

	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.SetLevel(log.InfoLevel)
		log.WithField("level", level).Warn("unknown log level, using info")

		return
	}

	log.SetLevel(lvl)
}
