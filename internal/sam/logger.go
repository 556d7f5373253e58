package sam

import "github.com/rs/zerolog"

// ZerologLogger adapts a zerolog.Logger to the Logger capability consumed by
// the adapters.
type ZerologLogger struct {
	L zerolog.Logger
}

func (z ZerologLogger) Info(text string)  { z.L.Info().Msg(text) }
func (z ZerologLogger) Error(text string) { z.L.Error().Msg(text) }

// nopLogger is the default on unbound adapters.
type nopLogger struct{}

func (nopLogger) Info(string)  {}
func (nopLogger) Error(string) {}
