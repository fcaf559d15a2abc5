// Package logging decides where diagnostics go and how much of them
// we want. Programs call Where once and hand the logger down.
package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

const (
	EnvLogLevel   = "MOLSYS_LOG_LEVEL"
	EnvLogNoColor = "MOLSYS_LOG_NOCOLOR"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// ParseLevel understands the usual level names. ok is false for an
// empty or unknown string.
func ParseLevel(raw string) (lvl zerolog.Level, ok bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "off", "none", "disabled":
		return zerolog.Disabled, true
	}
	return zerolog.InfoLevel, false
}

// Level comes from the environment, or is info.
func Level() zerolog.Level {
	lvl, _ := ParseLevel(os.Getenv(EnvLogLevel))
	return lvl
}

func noColor(f *os.File) bool {
	if v, err := strconv.ParseBool(os.Getenv(EnvLogNoColor)); err == nil {
		return v
	}
	return !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
}

func console(f *os.File) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: f, TimeFormat: time.RFC3339, NoColor: noColor(f)}
	return zerolog.New(out).With().Timestamp().Logger().Level(Level())
}

// Where decides where to send logged output.
// "" throws it away, "stdout" and "stderr" are what they say and
// anything else is a file name we append to, one json object per line.
// Close the returned Closer when finished.
func Where(dest string) (zerolog.Logger, io.Closer, error) {
	switch dest {
	case "":
		return zerolog.Nop(), nopCloser{}, nil
	case "stdout":
		return console(os.Stdout), nopCloser{}, nil
	case "stderr":
		return console(os.Stderr), nopCloser{}, nil
	}
	f, err := os.OpenFile(dest, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}
	l := zerolog.New(f).With().Timestamp().Logger().Level(Level())
	return l, f, nil
}

// ToWriter is for tests. Everything at debug and above goes to w as
// json.
func ToWriter(w io.Writer) zerolog.Logger {
	return zerolog.New(w).Level(zerolog.DebugLevel)
}
