package health

import (
	"context"
	"database/sql"
	"time"
)

// Pinger reports backing-store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Service encapsulates health-related checks.
type Service struct {
	kv Pinger
	db *sql.DB
}

// NewService constructs a new health service. Either dependency may be
// nil when the deployment runs on in-memory fallbacks.
func NewService(kv Pinger, db *sql.DB) *Service {
	return &Service{kv: kv, db: db}
}

// Status reports overall and per-store health.
func (s *Service) Status(ctx context.Context) map[string]any {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	out := map[string]any{"ok": true}

	if s.kv != nil {
		if err := s.kv.Ping(ctx); err != nil {
			out["ok"] = false
			out["kv"] = "down"
		} else {
			out["kv"] = "ok"
		}
	} else {
		out["kv"] = "memory"
	}

	if s.db != nil {
		if err := s.db.PingContext(ctx); err != nil {
			out["ok"] = false
			out["db"] = "down"
		} else {
			out["db"] = "ok"
		}
	} else {
		out["db"] = "memory"
	}

	return out
}
