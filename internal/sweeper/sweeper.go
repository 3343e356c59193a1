package sweeper

import (
	"time"

	pkglog "github.com/weiawesome/foodgram/pkg/log"
)

// RevocationStore forgets revocation marks that can no longer reject a
// live token.
type RevocationStore interface {
	CleanupExpiredRevocations()
}

// Sweeper periodically prunes token revocation marks.
type Sweeper struct {
	store    RevocationStore
	interval time.Duration
	quit     chan struct{}
	doneCh   chan struct{}
}

// New creates a new Sweeper. A non-positive interval defaults to one hour.
func New(store RevocationStore, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{
		store:    store,
		interval: interval,
		quit:     make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the sweeper in a background goroutine.
func (s *Sweeper) Start() {
	go s.run()
}

// Stop signals the sweeper to stop and returns immediately.
// Call Done() to wait for it to exit.
func (s *Sweeper) Stop() {
	close(s.quit)
}

// Done returns a channel that is closed when the sweeper has fully stopped.
func (s *Sweeper) Done() <-chan struct{} {
	return s.doneCh
}

func (s *Sweeper) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.quit:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Sweeper) sweep() {
	l := pkglog.L()
	start := time.Now()
	s.store.CleanupExpiredRevocations()
	l.Debug().Dur("took", time.Since(start)).Msg("sweeper: revocation marks pruned")
}
