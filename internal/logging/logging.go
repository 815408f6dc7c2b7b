// Package logging configures the process-wide structured logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/phuslu/log"

	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/config"
)

// Setup replaces log.DefaultLogger with a logger built from cfg.
// Packages log through the phuslu/log package-level helpers (log.Info(), log.Error(), ...).
func Setup(cfg config.LoggingConfig) {
	log.DefaultLogger = New(cfg, os.Stderr)
}

// New builds a logger writing to out. Format "json" writes one JSON object per line,
// anything else writes human readable console lines.
func New(cfg config.LoggingConfig, out io.Writer) log.Logger {
	level := log.ParseLevel(strings.ToLower(cfg.Level))

	var writer log.Writer
	if strings.EqualFold(cfg.Format, "json") {
		writer = &log.IOWriter{Writer: out}
	} else {
		writer = &log.ConsoleWriter{
			Writer:         out,
			ColorOutput:    false,
			EndWithMessage: true,
		}
	}

	return log.Logger{
		Level:      level,
		TimeFormat: "2006-01-02T15:04:05Z07:00",
		Writer:     writer,
	}
}
