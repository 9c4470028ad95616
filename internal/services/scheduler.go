package services

import (
	"context"
	"log"
	"sync"
	"time"
)

// Scheduler fires the monthly analysis on the first day of each month at
// 09:00 local time. It checks the clock once a minute rather than arming a
// long timer, so host suspends and clock adjustments cannot skip a month.
type Scheduler struct {
	Analyzer *Analyzer

	mu      sync.Mutex
	cancel  context.CancelFunc
	lastRun string // "YYYY-MM" of the last fired month
}

// Start launches the background ticker. Calling Start twice is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.loop(ctx)
	log.Println("scheduler started: monthly analysis on day 1 at 09:00")
}

// Stop halts the ticker. Safe to call without a prior Start.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Scheduler) loop(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.tick(ctx, now)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context, now time.Time) {
	if now.Day() != 1 || now.Hour() != 9 || now.Minute() != 0 {
		return
	}
	month := now.Format("2006-01")

	s.mu.Lock()
	if s.lastRun == month {
		s.mu.Unlock()
		return
	}
	s.lastRun = month
	s.mu.Unlock()

	log.Printf("scheduler: running monthly analysis for %s", month)
	results, err := s.Analyzer.RunMonthlyAnalysis(ctx, nil, now)
	if err != nil {
		log.Printf("scheduler: monthly analysis failed: %v", err)
		return
	}
	sent := 0
	for _, r := range results {
		if r.Sent {
			sent++
		}
	}
	log.Printf("scheduler: monthly analysis done, %d/%d departments mailed", sent, len(results))
}
