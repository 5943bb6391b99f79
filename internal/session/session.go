// Package session ties one allocator to one history ledger for the lifetime
// of a calculation session.
//
// A Session is created empty, records every successful computation, and is
// discarded with Close. It is driven by a single caller and is not safe for
// concurrent use.
package session

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ppiankov/warisan/internal/allocate"
	"github.com/ppiankov/warisan/internal/cache"
	"github.com/ppiankov/warisan/internal/ledger"
	"github.com/ppiankov/warisan/internal/logging"
	"github.com/ppiankov/warisan/internal/model"
	"github.com/ppiankov/warisan/internal/render"
	"github.com/ppiankov/warisan/internal/validate"
	"go.uber.org/zap"
)

var (
	// ErrClosed is returned by operations on a closed session
	ErrClosed = errors.New("session closed")
	// ErrEmptyHistory is returned when exporting a session with no entries
	ErrEmptyHistory = errors.New("no history to export")
)

// Session owns the allocator and the ledger of one calculation session
type Session struct {
	allocator *allocate.Allocator
	ledger    *ledger.Ledger
	renderer  *render.Renderer
	cache     *cache.MemoryCache
	logger    *zap.Logger
	now       func() time.Time
	locale    string
	closed    bool
}

// Option configures a Session
type Option func(*Session)

// WithCache memoizes allocations in c
func WithCache(c *cache.MemoryCache) Option {
	return func(s *Session) {
		s.cache = c
	}
}

// WithLogger sets the structured logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// WithClock sets the time source used to stamp history entries
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithLocale sets the locale used for thousands grouping
func WithLocale(locale string) Option {
	return func(s *Session) {
		s.locale = locale
	}
}

// New creates a session with an empty ledger
func New(opts ...Option) (*Session, error) {
	s := &Session{
		ledger: ledger.New(),
		logger: logging.Nop(),
		now:    time.Now,
		locale: "en",
	}
	for _, opt := range opts {
		opt(s)
	}

	renderer, err := render.NewRenderer(s.locale)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	s.renderer = renderer

	if s.cache != nil {
		s.allocator = allocate.New(allocate.WithCache(s.cache))
	} else {
		s.allocator = allocate.New()
	}
	s.logger = s.logger.With(zap.String("component", "session"))

	return s, nil
}

// Compute validates in, allocates the estate and records the result.
// Nothing is recorded when an error is returned.
func (s *Session) Compute(in model.Input) (model.Allocation, error) {
	if s.closed {
		return model.Allocation{}, ErrClosed
	}
	if err := validate.Input(in); err != nil {
		s.logger.Debug("input rejected", zap.String("operation", "compute"), zap.Error(err))
		return model.Allocation{}, fmt.Errorf("%w: %w", allocate.ErrInvalidInput, err)
	}

	result, err := s.allocator.Allocate(in)
	if err != nil {
		s.logger.Debug("allocation failed", zap.String("operation", "compute"), zap.Error(err))
		return model.Allocation{}, err
	}

	s.Record(in, result)
	return result, nil
}

// Record appends an already computed allocation to the history
func (s *Session) Record(in model.Input, result model.Allocation) model.HistoryEntry {
	entry := model.NewHistoryEntry(s.now(), in, result)
	s.ledger.Append(entry)

	s.logger.Info("computation recorded",
		zap.String("operation", "record"),
		zap.String("estate", entry.Estate.String()),
		zap.Bool("awl", result.AwlApplied),
		zap.Int("entries", s.ledger.Len()),
	)
	return entry
}

// Allocator returns the session's allocator
func (s *Session) Allocator() *allocate.Allocator {
	return s.allocator
}

// Renderer returns the renderer used for display and export
func (s *Session) Renderer() *render.Renderer {
	return s.renderer
}

// History returns a copy of all entries in insertion order
func (s *Session) History() []model.HistoryEntry {
	return s.ledger.Entries()
}

// Len returns the number of recorded entries
func (s *Session) Len() int {
	return s.ledger.Len()
}

// Entry returns the entry at the 0-based index
func (s *Session) Entry(index int) (model.HistoryEntry, error) {
	return s.ledger.At(index)
}

// Last returns the most recent entry
func (s *Session) Last() (model.HistoryEntry, bool) {
	return s.ledger.Last()
}

// DeleteAt removes the entry at the 0-based index
func (s *Session) DeleteAt(index int) error {
	if err := s.ledger.DeleteAt(index); err != nil {
		return err
	}
	s.logger.Info("entry deleted",
		zap.String("operation", "delete"),
		zap.Int("index", index),
		zap.Int("entries", s.ledger.Len()),
	)
	return nil
}

// ClearHistory removes every entry
func (s *Session) ClearHistory() {
	s.ledger.Clear()
	s.logger.Info("history cleared", zap.String("operation", "clear"))
}

// Export writes the whole history to path in the given format.
// An empty history is rejected and no file is created.
func (s *Session) Export(path, format string) error {
	if s.ledger.Len() == 0 {
		return ErrEmptyHistory
	}
	if err := s.ledger.ExportFile(path, s.renderer, format); err != nil {
		s.logger.Warn("export failed", zap.String("operation", "export"), zap.String("path", path), zap.Error(err))
		return err
	}
	s.logger.Info("history exported",
		zap.String("operation", "export"),
		zap.String("path", path),
		zap.String("format", format),
		zap.Int("entries", s.ledger.Len()),
	)
	return nil
}

// WriteTo writes the whole history to w in the given format
func (s *Session) WriteTo(w io.Writer, format string) error {
	if s.ledger.Len() == 0 {
		return ErrEmptyHistory
	}
	return s.ledger.Export(w, s.renderer, format)
}

// Close discards the history and any memoized allocations
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.logger.Debug("session closed", zap.String("operation", "close"), zap.Int("entries", s.ledger.Len()))
	s.ledger.Clear()
	if s.cache != nil {
		s.cache.Clear()
	}
	s.closed = true
	_ = s.logger.Sync()
}
