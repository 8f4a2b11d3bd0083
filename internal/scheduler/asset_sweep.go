package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"ebookshelf/internal/tasks"
)

// AssetSweepScheduler enqueues periodic orphan asset cleanup tasks.
type AssetSweepScheduler struct {
	client   *tasks.Client
	schedule string
	enabled  bool

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewAssetSweepScheduler creates a new scheduler instance.
func NewAssetSweepScheduler(client *tasks.Client, schedule string, enabled bool) *AssetSweepScheduler {
	return &AssetSweepScheduler{
		client:   client,
		schedule: schedule,
		enabled:  enabled,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if sweeping is enabled.
func (s *AssetSweepScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.enabled {
		log.Printf("Asset sweep scheduler: disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.enqueueSweep()
	})
	if err != nil {
		return fmt.Errorf("invalid sweep schedule '%s': %w", s.schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Asset sweep scheduler: started with schedule '%s'. Next run: %v",
		s.schedule, s.nextRunLocked())

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler.
func (s *AssetSweepScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Asset sweep scheduler: stopped")
}

// RunNow enqueues an immediate sweep.
func (s *AssetSweepScheduler) RunNow() error {
	if s.client == nil {
		return fmt.Errorf("task client not configured")
	}
	_, err := s.client.Add(tasks.CleanupOrphanAssetsTask{}).Save()
	return err
}

// IsRunning returns whether the scheduler is active.
func (s *AssetSweepScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next sweep will be enqueued.
func (s *AssetSweepScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	if t := s.nextRunLocked(); !t.IsZero() {
		return &t
	}
	return nil
}

func (s *AssetSweepScheduler) nextRunLocked() time.Time {
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			return entry.Next
		}
	}
	return time.Time{}
}

func (s *AssetSweepScheduler) enqueueSweep() {
	if _, err := s.client.Add(tasks.CleanupOrphanAssetsTask{}).Save(); err != nil {
		log.Printf("Asset sweep: failed to enqueue cleanup task: %v", err)
		return
	}
	log.Printf("Asset sweep: cleanup task enqueued")
}
