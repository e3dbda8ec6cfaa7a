package util

import (
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggingInit configures logrus according to the loaded config.
// When a log path is set, output goes to a size-rotated file.
func LoggingInit() {
	if Config.LogLevel != "" {
		level, err := log.ParseLevel(Config.LogLevel)
		if err != nil {
			log.WithError(err).Warn("invalid log level, keeping default")
		} else {
			log.SetLevel(level)
		}
	}

	if Config.LogPath != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   Config.LogPath,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		})
	}
}
