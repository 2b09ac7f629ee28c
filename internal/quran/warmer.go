package quran

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Refresher is implemented by caches that can be repopulated from upstream.
type Refresher interface {
	RefreshChapters(ctx context.Context) ([]Chapter, error)
	RefreshChapter(ctx context.Context, number int) error
}

// Warmer periodically repopulates a content cache on a cron schedule.
type Warmer struct {
	cache       Refresher
	schedule    string
	concurrency int

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewWarmer(cache Refresher, schedule string, concurrency int) *Warmer {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Warmer{
		cache:       cache,
		schedule:    schedule,
		concurrency: concurrency,
		cron:        cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	_, err := parser.Parse(schedule)
	return err
}

// Start schedules the warm job. It is a no-op when already running.
func (w *Warmer) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return nil
	}

	if err := ValidateSchedule(w.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", w.schedule, err)
	}

	w.ctx, w.cancel = context.WithCancel(ctx)

	if _, err := w.cron.AddFunc(w.schedule, func() {
		if err := w.Run(w.ctx); err != nil {
			log.Error().Err(err).Msg("cache warm failed")
		}
	}); err != nil {
		w.cancel()
		return fmt.Errorf("failed to schedule warm job: %w", err)
	}

	w.cron.Start()
	w.isRunning = true
	log.Info().Str("schedule", w.schedule).Msg("content cache warmer started")
	return nil
}

// Stop halts the schedule and waits for a running job to return.
func (w *Warmer) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.isRunning {
		return
	}
	w.cancel()
	<-w.cron.Stop().Done()
	w.isRunning = false
	log.Info().Msg("content cache warmer stopped")
}

// Run refreshes the chapter list and then every chapter detail.
func (w *Warmer) Run(ctx context.Context) error {
	start := time.Now()

	chapters, err := w.cache.RefreshChapters(ctx)
	if err != nil {
		return fmt.Errorf("refresh chapter list: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for _, ch := range chapters {
		number := ch.Number
		g.Go(func() error {
			if err := w.cache.RefreshChapter(gctx, number); err != nil {
				return fmt.Errorf("refresh chapter %d: %w", number, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	log.Info().Int("chapters", len(chapters)).Dur("took", time.Since(start)).Msg("content cache warmed")
	return nil
}
