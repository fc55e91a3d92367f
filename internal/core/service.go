package core

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cedoromal/persons-admin/internal/api"
	"github.com/cedoromal/persons-admin/internal/cache"
	"github.com/cedoromal/persons-admin/internal/logging"
	"github.com/cedoromal/persons-admin/internal/person"
)

// Options configures a Service.
type Options struct {
	// Cache is the record query cache. Nil disables caching; listings are
	// still fetched, nothing is remembered.
	Cache *cache.Listing

	// Notifier receives workflow notifications. Nil defaults to NopNotifier.
	Notifier Notifier

	// StorageBaseURL is the storage origin upload links point into. The
	// import pipeline strips this prefix to derive the transfer path.
	StorageBaseURL string

	// TransferBaseURL is the origin the derived transfer path is PUT
	// against: the app's own public origin, so the transfer flows through
	// the same-origin storage proxy.
	TransferBaseURL string

	// MaxImportSize is the CSV size ceiling in bytes.
	MaxImportSize int64

	// ImportTimeout bounds a whole import attempt.
	ImportTimeout time.Duration

	// HTTPClient is used for the CSV transfer PUT. Nil gets a default.
	HTTPClient *http.Client
}

// Service implements the admin workflows. All methods are safe for
// concurrent use.
type Service struct {
	api      *api.Client
	cache    *cache.Listing
	guards   *SessionGuard
	filters  *FilterStore
	notifier Notifier

	storageBase   string
	transferBase  string
	maxImportSize int64
	importTimeout time.Duration
	http          *http.Client

	mu         sync.Mutex
	lastImport *ImportAttempt
}

// NewService creates a Service over the given backend client.
func NewService(client *api.Client, opts Options) (*Service, error) {
	if client == nil {
		return nil, errors.New("backend client is required")
	}
	if opts.Notifier == nil {
		opts.Notifier = NopNotifier{}
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.MaxImportSize <= 0 {
		opts.MaxImportSize = 10 << 10
	}
	if opts.ImportTimeout <= 0 {
		opts.ImportTimeout = 2 * time.Minute
	}

	return &Service{
		api:           client,
		cache:         opts.Cache,
		guards:        NewSessionGuard(),
		filters:       NewFilterStore(),
		notifier:      opts.Notifier,
		storageBase:   strings.TrimSuffix(opts.StorageBaseURL, "/"),
		transferBase:  strings.TrimSuffix(opts.TransferBaseURL, "/"),
		maxImportSize: opts.MaxImportSize,
		importTimeout: opts.ImportTimeout,
		http:          opts.HTTPClient,
	}, nil
}

// Guards exposes the session guard set so the UI can reflect busy state.
func (s *Service) Guards() *SessionGuard {
	return s.guards
}

// ActiveFilter returns the session's current listing criteria.
func (s *Service) ActiveFilter(sessionID string) person.Filter {
	return s.filters.Active(sessionID)
}

// ApplyFilter replaces the session's criteria as a single atomic unit and
// returns the listing fetched with the new criteria. This is the explicit
// "submit criteria, then refetch" transition: there is no error path for
// the state change itself, only for the fetch it triggers.
func (s *Service) ApplyFilter(ctx context.Context, sessionID string, f person.Filter) ([]person.Person, error) {
	s.filters.Apply(sessionID, f)
	return s.ListPersons(ctx, sessionID)
}

// ListPersons fetches the listing for the session's active criteria.
// Every call hits the backend; the cache only remembers the last result
// set per criteria and is rewritten when the data differs.
func (s *Service) ListPersons(ctx context.Context, sessionID string) ([]person.Person, error) {
	f := s.filters.Active(sessionID)

	persons, err := s.api.List(ctx, f)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		changed, err := s.cache.Store(ctx, f.Fingerprint(), persons)
		if err != nil {
			// Cache trouble must not break the listing.
			logging.FromContext(ctx).Warn("listing cache store failed", "error", err)
		} else if changed {
			logging.FromContext(ctx).Debug("listing cache updated", "fingerprint", f.Fingerprint())
		}
	}

	return persons, nil
}

// GetPerson fetches a single record for the edit form. Returns
// api.ErrNotFound when the record is missing; the UI renders the empty
// fallback form in that case rather than an error.
func (s *Service) GetPerson(ctx context.Context, id int64) (person.Person, error) {
	return s.api.Get(ctx, id)
}

// LastImport returns the most recent import attempt, or nil.
func (s *Service) LastImport() *ImportAttempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastImport == nil {
		return nil
	}
	snapshot := *s.lastImport
	return &snapshot
}

// invalidateListings drops every cached listing after a successful
// mutation or import. Cache failures are logged, never surfaced.
func (s *Service) invalidateListings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		logging.FromContext(ctx).Warn("listing cache invalidation failed", "error", err)
	}
}
