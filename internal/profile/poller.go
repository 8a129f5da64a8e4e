package profile

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/RebootDash/RD-Backend/internal/auth"
	"github.com/RebootDash/RD-Backend/internal/profile/intra"
	"github.com/RebootDash/RD-Backend/internal/profile/metrics"
	"github.com/RebootDash/RD-Backend/internal/utils"
)

// Poller refreshes cached snapshots for every live session on a fixed
// interval. Failures keep the previous snapshot and the interval stays
// fixed; an auth rejection from the platform destroys the session.
type Poller struct {
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func StartPoller(interval time.Duration) *Poller {
	p := &Poller{
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *Poller) run() {
	defer close(p.done)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.pollOnce()
		case <-p.stop:
			return
		}
	}
}

// Stop shuts the poller down and waits for the current pass to finish.
func (p *Poller) Stop() {
	close(p.stop)
	<-p.done
}

func (p *Poller) pollOnce() {
	sessions, err := auth.ActiveSessions()
	if err != nil {
		log.Printf("[profile] list sessions: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.interval)
	defer cancel()

	for _, s := range sessions {
		if s.UserID == 0 {
			continue
		}

		_, err := Refresh(ctx, utils.SessionData{
			SessionID: s.SessionID,
			UserID:    s.UserID,
			EventID:   s.EventID,
			Token:     s.Token,
		})
		switch {
		case err == nil:
		case errors.Is(err, intra.ErrAuthRejected):
			// Equivalent to expiry: the persisted token goes away and
			// the next guarded request answers 401.
			log.Printf("[profile] token rejected for user %d, destroying session", s.UserID)
			_ = auth.SessionInfo{}.DestroySession(s.SessionID)
			cache.Evict(s.UserID)
		default:
			log.Printf("[profile] poll user %d: %v", s.UserID, err)
		}
	}
}

// Refresh performs one fetch for the session's identity and applies the
// result to the cache under the staleness guard. When a newer fetch won
// the race, the newer cached snapshot is returned instead.
func Refresh(ctx context.Context, s utils.SessionData) (metrics.Snapshot, error) {
	seq := cache.Begin(s.UserID)

	data, err := client.FetchProfile(ctx, s.Token, s.UserID, s.EventID)
	if err != nil {
		return metrics.Snapshot{}, err
	}

	snap := BuildSnapshot(data, time.Now())
	if !cache.Complete(s.UserID, seq, snap) {
		if cached, ok := cache.Get(s.UserID); ok {
			return cached, nil
		}
	}
	return snap, nil
}
