package health

import (
	"context"
	"time"
)

const checkTimeout = 2 * time.Second

// Pinger is a dependency that can report whether it is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a plain ping function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

// Service encapsulates health-related checks. ok is always true; each
// dependency reports "up", "down" or "disabled".
type Service struct {
	DB    Pinger
	Cache Pinger
}

// NewService constructs a new health service.
func NewService(db, cache Pinger) *Service {
	return &Service{DB: db, Cache: cache}
}

// Status returns the health payload.
func (s *Service) Status(ctx context.Context) map[string]any {
	return map[string]any{
		"ok":       true,
		"database": check(ctx, s.DB),
		"cache":    check(ctx, s.Cache),
	}
}

func check(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	if err := p.PingContext(ctx); err != nil {
		return "down"
	}
	return "up"
}
