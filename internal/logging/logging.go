package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/samber/do/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config of the logging, part of the service config
type Config struct {
	Level    string `yaml:"level"`
	Filename string `yaml:"filename"`
	// MaxSize in MB before the log file will be rotated
	MaxSize    int    `yaml:"maxsize"`
	MaxBackups int    `yaml:"maxbackups"`
	MaxAge     int    `yaml:"maxage"` // in days
	Gelf       string `yaml:"gelf"`   // udp://host:port of a graylog server
	Facility   string `yaml:"facility"`
}

type Logger struct {
	name string
	sl   *slog.Logger
}

var (
	level   = new(slog.LevelVar)
	handler slog.Handler
	hlock   sync.RWMutex
	closers []io.Closer

	Root = New()
)

func init() {
	handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
}

// Init configures the log sinks with the config found in the injector
func Init(inj do.Injector) {
	cfg, err := do.Invoke[*Config](inj)
	if err != nil || cfg == nil {
		cfg = &Config{Level: "info"}
	}
	Configure(*cfg)
}

// Configure sets the level and the sinks of all loggers
func Configure(cfg Config) {
	level.Set(ParseLevel(cfg.Level))
	opts := &slog.HandlerOptions{Level: level}
	writers := []io.Writer{os.Stdout}
	cls := make([]io.Closer, 0)
	if cfg.Filename != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   true,
		}
		writers = append(writers, lj)
		cls = append(cls, lj)
	}
	var h slog.Handler = slog.NewTextHandler(io.MultiWriter(writers...), opts)
	if cfg.Gelf != "" {
		gh, err := newGelfHandler(cfg.Gelf, cfg.Facility, level)
		if err != nil {
			fmt.Fprintf(os.Stderr, "can't connect to gelf server %s: %v\r\n", cfg.Gelf, err)
		} else {
			h = &teeHandler{handlers: []slog.Handler{h, gh}}
			cls = append(cls, gh)
		}
	}
	hlock.Lock()
	defer hlock.Unlock()
	for _, c := range closers {
		c.Close()
	}
	handler = h
	closers = cls
}

// Close closes all file and network sinks
func Close() {
	Configure(Config{Level: level.Level().String()})
}

// ParseLevel converts the config name of a level, unknown names are info
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// New creates a new unnamed logger
func New() *Logger {
	return &Logger{}
}

// WithName returns a logger with the name as component attribute
func (l *Logger) WithName(name string) *Logger {
	return &Logger{name: name}
}

func (l *Logger) logger() *slog.Logger {
	hlock.RLock()
	defer hlock.RUnlock()
	sl := slog.New(handler)
	if l.name != "" {
		sl = sl.With("component", l.name)
	}
	return sl
}

// Slog returns the underlying structured logger
func (l *Logger) Slog() *slog.Logger {
	return l.logger()
}

func (l *Logger) Debugf(format string, args ...any) {
	l.log(slog.LevelDebug, format, args...)
}

func (l *Logger) Infof(format string, args ...any) {
	l.log(slog.LevelInfo, format, args...)
}

func (l *Logger) Info(msg string) {
	l.log(slog.LevelInfo, "%s", msg)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.log(slog.LevelWarn, format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.log(slog.LevelError, format, args...)
}

func (l *Logger) Fatalf(format string, args ...any) {
	l.log(slog.LevelError, format, args...)
	os.Exit(1)
}

func (l *Logger) log(lvl slog.Level, format string, args ...any) {
	if !l.Enabled(lvl) {
		return
	}
	l.logger().Log(context.Background(), lvl, fmt.Sprintf(format, args...))
}

// Enabled checks if the level is active
func (l *Logger) Enabled(lvl slog.Level) bool {
	return lvl >= level.Level()
}
