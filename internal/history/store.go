package history

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/phishscan/internal/model"
	"github.com/nao1215/phishscan/internal/storage"
)

// StorageKey is the well-known key the history is persisted under.
const StorageKey = "phish_scan_history_v1"

// Store is the scan history: a bounded, ordered, persisted list of recent
// scan results.
//
// Writes from one process are serialised by a mutex. Writes from different
// processes sharing the same storage are not coordinated and the last
// write wins.
type Store struct {
	mu        sync.Mutex
	storage   storage.Storage
	key       string
	clock     func() time.Time
	logger    *slog.Logger
	container Container
	formatter *TimeFormatter
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used to stamp new records.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// WithLogger sets the logger that receives swallowed storage errors.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithContainer binds the container that Render and Record write into.
func WithContainer(c Container) Option {
	return func(s *Store) {
		s.container = c
	}
}

// WithTimeFormatter sets the formatter of record timestamps.
func WithTimeFormatter(f *TimeFormatter) Option {
	return func(s *Store) {
		s.formatter = f
	}
}

// WithLocale formats record timestamps for the given BCP 47 locale in the
// local time zone.
func WithLocale(locale string) Option {
	return func(s *Store) {
		s.formatter = NewTimeFormatter(locale, time.Local)
	}
}

// withKey overrides the storage key. Used by tests only.
func withKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

// NewStore creates a history Store over the given storage.
func NewStore(st storage.Storage, opts ...Option) *Store {
	s := &Store{
		storage: st,
		key:     StorageKey,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.formatter == nil {
		s.formatter = NewTimeFormatter(DefaultLocale, time.Local)
	}
	return s
}

// Read returns the current history, or an empty list if the value is
// absent, unreadable or malformed. It never fails.
func (s *Store) Read(ctx context.Context) model.HistoryList {
	raw, err := s.storage.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Debug("history read failed", "key", s.key, "error", err)
		}
		return model.HistoryList{}
	}
	if raw == "" {
		return model.HistoryList{}
	}

	var list model.HistoryList
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		s.logger.Debug("history value is malformed", "key", s.key, "error", err)
		return model.HistoryList{}
	}
	if list == nil {
		return model.HistoryList{}
	}
	return list.Truncate()
}

// Record prepends a new record stamped with the current time, keeps the
// newest model.MaxHistoryEntries records, persists the list and re-renders
// the bound container.
//
// Storage failures are logged at debug level and otherwise ignored; the
// caller is never told. The caller is responsible for clamping confidence
// to a sane display range.
func (s *Store) Record(ctx context.Context, url, label string, confidence float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.Read(ctx).Prepend(model.NewScanRecord(url, label, confidence, s.clock()))

	data, err := json.Marshal(list)
	if err != nil {
		s.logger.Debug("history encode failed", "error", err)
		return
	}
	if err := s.storage.Set(ctx, s.key, string(data)); err != nil {
		s.logger.Debug("history write failed", "key", s.key, "error", err)
		return
	}

	s.render(ctx)
}

// Render renders the current history into the bound container and returns
// the markup. An empty or unreadable history renders the placeholder.
// Rendering unchanged data always produces identical output.
func (s *Store) Render(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.render(ctx)
}

func (s *Store) render(ctx context.Context) string {
	markup := RenderList(s.Read(ctx), s.formatter)
	if s.container != nil {
		s.container.SetInnerHTML(markup)
	}
	return markup
}
