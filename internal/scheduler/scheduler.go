package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/dawat-dev/dawat/internal/handlers"
	"github.com/dawat-dev/dawat/internal/services"
	"github.com/dawat-dev/dawat/internal/store"
)

const runTimeout = 30 * time.Second

// Reminder periodically scans for upcoming follow-ups, announces them on the
// dashboard hub and sends webhook digests.
type Reminder struct {
	store    *store.Store
	hub      *handlers.Hub
	notifier *services.Notifier
	interval time.Duration

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	running bool
}

func New(dataStore *store.Store, hub *handlers.Hub, notifier *services.Notifier, interval time.Duration) *Reminder {
	ctx, cancel := context.WithCancel(context.Background())
	return &Reminder{
		store:    dataStore,
		hub:      hub,
		notifier: notifier,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins the reminder loop with an immediate first run.
func (r *Reminder) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return
	}

	r.running = true

	go func() {
		r.run()

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-r.ctx.Done():
				return
			case <-ticker.C:
				r.run()
			}
		}
	}()

	log.Printf("Follow-up reminder started (every %s)", r.interval)
}

// Stop shuts the reminder loop down.
func (r *Reminder) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}

	r.cancel()
	r.running = false
	log.Println("Follow-up reminder stopped")
}

func (r *Reminder) run() {
	ctx, cancel := context.WithTimeout(r.ctx, runTimeout)
	defer cancel()

	visits, err := r.store.UpcomingFollowUps(ctx)

	if err != nil {
		log.Printf("Follow-up reminder scan failed: %v", err)
		return
	}

	if len(visits) == 0 {
		return
	}

	r.hub.BroadcastFollowUpsDue(len(visits))

	if err := r.notifier.SendFollowUpDigest(visits); err != nil {
		log.Printf("Follow-up digest delivery failed: %v", err)
	}
}
