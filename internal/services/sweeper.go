package services

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sweepable is anything that can drop entries idle for longer than ttl.
type Sweepable interface {
	Sweep(ttl time.Duration) int
	Len() int
}

// Sweeper periodically evicts abandoned in-progress assessments.
type Sweeper struct {
	log      *zap.Logger
	target   Sweepable
	interval time.Duration
	ttl      func() time.Duration

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewSweeper builds a sweeper. ttl is read on every tick so config reloads
// take effect without a restart.
func NewSweeper(log *zap.Logger, target Sweepable, interval time.Duration, ttl func() time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		log:      log,
		target:   target,
		interval: interval,
		ttl:      ttl,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the sweeper in a goroutine until Stop is called.
func (s *Sweeper) Start() {
	s.log.Info("Starting session sweeper...", zap.Duration("interval", s.interval))
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.runSweep()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop ends the loop and waits for it to exit.
func (s *Sweeper) Stop() {
	s.once.Do(func() {
		close(s.stop)
	})
	<-s.done
}

func (s *Sweeper) runSweep() {
	ttl := s.ttl()
	if ttl <= 0 {
		return
	}
	removed := s.target.Sweep(ttl)
	if removed > 0 {
		s.log.Info("Evicted idle assessment sessions",
			zap.Int("removed", removed),
			zap.Int("remaining", s.target.Len()),
		)
		return
	}
	s.log.Debug("Session sweep found nothing to evict", zap.Int("sessions", s.target.Len()))
}
