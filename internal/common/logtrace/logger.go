package logtrace

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger sets up the global zerolog logger. An empty or unknown level
// falls back to info.
func InitLogger(level ...string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	lvl := zerolog.InfoLevel
	if len(level) > 0 && level[0] != "" {
		if l, err := zerolog.ParseLevel(strings.ToLower(level[0])); err == nil {
			lvl = l
		}
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}
