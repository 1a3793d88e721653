package leaderboard

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Defaults used when a Service is created without options.
const (
	DefaultTimeout = 5 * time.Second
	DefaultRetries = 1
	DefaultLimit   = 10
)

// Service is the score persistence facade. Every call tries the primary
// backend first and transparently falls back to the local one.
type Service struct {
	primary  Backend
	fallback Backend
	identity Identity
	timeout  time.Duration
	retries  int
	backoff  time.Duration
	logger   *log.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithIdentity sets the player the service connects as.
func WithIdentity(id Identity) Option {
	return func(s *Service) { s.identity = id }
}

// WithTimeout bounds each backend attempt.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithRetries sets how many times a failed primary call is repeated.
func WithRetries(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.retries = n
		}
	}
}

// WithBackoff sets the pause between retries.
func WithBackoff(d time.Duration) Option {
	return func(s *Service) { s.backoff = d }
}

// WithLogger sets the logger for backend failures.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a facade. Either backend may be nil.
func NewService(primary, fallback Backend, opts ...Option) *Service {
	s := &Service{
		primary:  primary,
		fallback: fallback,
		timeout:  DefaultTimeout,
		retries:  DefaultRetries,
		backoff:  100 * time.Millisecond,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Identity returns the configured player identity.
func (s *Service) Identity() Identity {
	return s.identity
}

// Connect resolves the player identity and checks the primary backend.
// An unreachable primary is logged, not returned: the fallback still works.
func (s *Service) Connect(ctx context.Context) (Identity, error) {
	if !s.identity.Valid() {
		return Identity{}, ErrNoIdentity
	}

	if p, ok := s.primary.(Pinger); ok {
		err := s.attempt(ctx, func(ctx context.Context) error { return p.Ping(ctx) })
		if err != nil {
			s.logger.Warn("primary leaderboard unreachable", "backend", s.primary.Name(), "err", err)
		}
	}

	s.logger.Info("player connected", "player", s.identity.Player, "nickname", s.identity.DisplayName())
	return s.identity, nil
}

// SubmitScore saves the score locally, then submits it to the primary
// backend. It reports success when either save worked; a primary failure is
// still returned as a *ConnectionError so callers can tell the player.
func (s *Service) SubmitScore(ctx context.Context, id Identity, score int) (bool, error) {
	if !id.Valid() {
		return false, ErrNoIdentity
	}

	entry := Entry{
		Player:    id.Player,
		Score:     score,
		Nickname:  id.DisplayName(),
		Timestamp: time.Now(),
	}

	localSaved := false
	var localErr error
	if s.fallback != nil {
		localSaved, localErr = s.fallback.SubmitScore(ctx, entry)
		if localErr != nil {
			s.logger.Error("local score save failed", "player", id.Player, "score", score, "err", localErr)
		} else if localSaved {
			s.logger.Debug("score saved locally", "player", id.Player, "score", score)
		}
	}

	if s.primary == nil {
		if localErr != nil {
			return false, &ConnectionError{Op: "submit", Backend: s.fallback.Name(), Err: localErr}
		}
		return localSaved, nil
	}

	var improved bool
	err := s.attempt(ctx, func(ctx context.Context) error {
		var err error
		improved, err = s.primary.SubmitScore(ctx, entry)
		return err
	})
	if err == nil {
		s.logger.Info("score submitted", "player", id.Player, "score", score, "backend", s.primary.Name(), "improved", improved)
		return improved, nil
	}

	s.logger.Warn("score submission failed", "player", id.Player, "score", score, "err", err, "saved_locally", localSaved)
	cerr := &ConnectionError{Op: "submit", Backend: s.primary.Name(), Err: err}
	if localErr != nil {
		return false, errors.Join(cerr, localErr)
	}
	return localSaved, cerr
}

// TopScores returns up to limit entries from the primary backend, or from
// the fallback when the primary fails.
func (s *Service) TopScores(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	if s.primary != nil {
		var entries []Entry
		err := s.attempt(ctx, func(ctx context.Context) error {
			var err error
			entries, err = s.primary.TopScores(ctx, limit)
			return err
		})
		if err == nil {
			return entries, nil
		}
		s.logger.Warn("top scores from primary failed, using fallback", "err", err)
		if s.fallback == nil {
			return nil, &ConnectionError{Op: "top", Backend: s.primary.Name(), Err: err}
		}
	}

	if s.fallback == nil {
		return nil, nil
	}
	entries, err := s.fallback.TopScores(ctx, limit)
	if err != nil {
		return nil, &ConnectionError{Op: "top", Backend: s.fallback.Name(), Err: err}
	}
	return entries, nil
}

// PlayerScore returns the player's best entry, or nil when none is recorded.
func (s *Service) PlayerScore(ctx context.Context, id Identity) (*Entry, error) {
	if !id.Valid() {
		return nil, ErrNoIdentity
	}

	if s.primary != nil {
		var entry *Entry
		err := s.attempt(ctx, func(ctx context.Context) error {
			var err error
			entry, err = s.primary.PlayerScore(ctx, id.Player)
			return err
		})
		if err == nil {
			return entry, nil
		}
		s.logger.Warn("player score from primary failed, using fallback", "player", id.Player, "err", err)
		if s.fallback == nil {
			return nil, &ConnectionError{Op: "player", Backend: s.primary.Name(), Err: err}
		}
	}

	if s.fallback == nil {
		return nil, nil
	}
	entry, err := s.fallback.PlayerScore(ctx, id.Player)
	if err != nil {
		return nil, &ConnectionError{Op: "player", Backend: s.fallback.Name(), Err: err}
	}
	return entry, nil
}

// attempt runs fn with a per-attempt timeout, retrying failures.
func (s *Service) attempt(ctx context.Context, fn func(context.Context) error) error {
	var err error
	for i := 0; i <= s.retries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return errors.Join(err, ctx.Err())
			case <-time.After(s.backoff):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		err = fn(callCtx)
		cancel()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return err
		}
	}
	return err
}
