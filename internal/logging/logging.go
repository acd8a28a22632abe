package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/sap-gg/ftctl/internal/config"
)

const redacted = "********"

// Init sets up the global logger from the log.* keys of v.
// Non-empty sensitive values, such as the git token, are masked in every log line.
func Init(v *viper.Viper, sensitiveValues ...string) {
	var queue []string

	levelStr := strings.ToLower(v.GetString(config.LogLevelKey))
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil || levelStr == "" {
		level = zerolog.InfoLevel
		if levelStr != "" {
			queue = append(queue, fmt.Sprintf("invalid log level %q, using info", levelStr))
		}
	}
	zerolog.SetGlobalLevel(level)

	log.Logger = New(os.Stderr, v.GetString(config.LogFormatKey), v.GetBool(config.LogNoColorKey),
		sensitiveValues, &queue)

	for _, msg := range queue {
		log.Warn().Msg(msg)
	}
}

// New builds a logger writing to out in the given format, "console" or "json".
// Problems with the format are appended to queue so they can be logged once the logger exists.
func New(out io.Writer, format string, noColor bool, sensitive []string, queue *[]string) zerolog.Logger {
	if secrets := nonEmpty(sensitive); len(secrets) > 0 {
		out = NewRedactingWriter(out, secrets)
	}

	switch strings.ToLower(format) {
	case "json":
		return zerolog.New(out).With().Timestamp().Logger()
	case "console", "":
	default:
		*queue = append(*queue, fmt.Sprintf("unknown log format %q, using console", format))
	}
	return zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = out
		w.NoColor = noColor
		w.TimeFormat = "15:04:05.000"
	})).With().
		Timestamp().
		Logger()
}

func nonEmpty(values []string) []string {
	var out []string
	for _, s := range values {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// RedactingWriter replaces sensitive values before passing log lines on.
type RedactingWriter struct {
	underlying io.Writer
	sensitive  [][]byte
}

func NewRedactingWriter(underlying io.Writer, sensitive []string) *RedactingWriter {
	rw := &RedactingWriter{underlying: underlying}
	for _, s := range sensitive {
		rw.sensitive = append(rw.sensitive, []byte(s))
	}
	return rw
}

// Write reports len(p) on success so callers do not see a short write after redaction.
func (rw *RedactingWriter) Write(p []byte) (int, error) {
	msg := p
	for _, secret := range rw.sensitive {
		if bytes.Contains(msg, secret) {
			msg = bytes.ReplaceAll(msg, secret, []byte(redacted))
		}
	}
	if _, err := rw.underlying.Write(msg); err != nil {
		return 0, err
	}
	return len(p), nil
}
