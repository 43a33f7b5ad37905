package logger

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global logger for the given environment.
// Production logs JSON at info level; everything else gets a console
// writer with caller info at debug level.
func Init(env string) {
	if env == "production" {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
		return
	}
	log.Logger = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Caller().Logger()
	log.Logger = log.Logger.Level(zerolog.DebugLevel)
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}
