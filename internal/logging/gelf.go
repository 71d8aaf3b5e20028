package logging

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aphistic/golf"
)

// gelfHandler sends the log records to a graylog server
type gelfHandler struct {
	client *golf.Client
	logger *golf.Logger
	level  slog.Leveler
	attrs  map[string]any
}

func newGelfHandler(url, facility string, lvl slog.Leveler) (*gelfHandler, error) {
	c, err := golf.NewClient()
	if err != nil {
		return nil, err
	}
	if err := c.Dial(url); err != nil {
		c.Close()
		return nil, err
	}
	l, err := c.NewLogger()
	if err != nil {
		c.Close()
		return nil, err
	}
	if facility == "" {
		facility = "go_vtrender"
	}
	l.SetAttr("facility", facility)
	return &gelfHandler{
		client: c,
		logger: l,
		level:  lvl,
		attrs:  map[string]any{},
	}, nil
}

func (h *gelfHandler) Enabled(_ context.Context, lvl slog.Level) bool {
	return lvl >= h.level.Level()
}

func (h *gelfHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for k, v := range h.attrs {
		attrs[k] = v
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.String()
		return true
	})
	switch {
	case r.Level >= slog.LevelError:
		return h.logger.Errm(attrs, "%s", r.Message)
	case r.Level >= slog.LevelWarn:
		return h.logger.Warnm(attrs, "%s", r.Message)
	case r.Level >= slog.LevelInfo:
		return h.logger.Infom(attrs, "%s", r.Message)
	}
	return h.logger.Dbgm(attrs, "%s", r.Message)
}

func (h *gelfHandler) WithAttrs(as []slog.Attr) slog.Handler {
	attrs := make(map[string]any, len(h.attrs)+len(as))
	for k, v := range h.attrs {
		attrs[k] = v
	}
	for _, a := range as {
		attrs[a.Key] = a.Value.String()
	}
	return &gelfHandler{client: h.client, logger: h.logger, level: h.level, attrs: attrs}
}

// groups are flattened
func (h *gelfHandler) WithGroup(_ string) slog.Handler {
	return h
}

func (h *gelfHandler) Close() error {
	return h.client.Close()
}

// teeHandler writes every record to all handlers
type teeHandler struct {
	handlers []slog.Handler
}

func (t *teeHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	for _, h := range t.handlers {
		if h.Enabled(ctx, lvl) {
			return true
		}
	}
	return false
}

func (t *teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range t.handlers {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (t *teeHandler) WithAttrs(as []slog.Attr) slog.Handler {
	hs := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		hs[i] = h.WithAttrs(as)
	}
	return &teeHandler{handlers: hs}
}

func (t *teeHandler) WithGroup(name string) slog.Handler {
	hs := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		hs[i] = h.WithGroup(name)
	}
	return &teeHandler{handlers: hs}
}
