package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/egarlo/libreria/internal/covers"
	"github.com/egarlo/libreria/internal/database"
	"github.com/egarlo/libreria/internal/database/books"
)

// CoverSweepScheduler periodically removes cover files that no book
// references anymore (e.g. after a book was deleted or its cover was
// replaced under a different filename).
type CoverSweepScheduler struct {
	db       *database.Database
	store    *covers.Store
	schedule string

	cron       *cron.Cron
	mu         sync.Mutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

func NewCoverSweepScheduler(db *database.Database, store *covers.Store, schedule string) *CoverSweepScheduler {
	return &CoverSweepScheduler{
		db:       db,
		store:    store,
		schedule: schedule,
		cron:     cron.New(),
	}
}

// Start schedules the sweep job and begins the cron loop.
func (s *CoverSweepScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.runSweep); err != nil {
		return fmt.Errorf("failed to schedule cover sweep: %w", err)
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true
	log.Printf("Cover sweep scheduler: started with schedule %q", s.schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop halts the cron loop and waits for a running sweep to finish.
func (s *CoverSweepScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}

	log.Printf("Cover sweep scheduler: stopped")
}

func (s *CoverSweepScheduler) runSweep() {
	referenced, err := books.NewRepository(s.db.DB).CoverPaths()
	if err != nil {
		log.Printf("Cover sweep: failed to list referenced covers: %v", err)
		return
	}
	removed, err := s.store.Sweep(referenced)
	if err != nil {
		log.Printf("Cover sweep: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("Cover sweep: removed %d orphan cover file(s)", removed)
	}
}
