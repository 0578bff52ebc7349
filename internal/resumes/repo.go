package resumes

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"intellihire-backend/internal/shared/storage/kv"
	"intellihire-backend/internal/shared/telemetry"
)

const keyPrefix = "resume:"

// Key returns the key-value store key for a resume id.
func Key(id string) string {
	return keyPrefix + id
}

// Repo defines persistence operations for resume records.
type Repo interface {
	List(ctx context.Context) ([]Resume, error)
	Get(ctx context.Context, id string) (Resume, error)
	Save(ctx context.Context, rec Resume) error
	Delete(ctx context.Context, id string) error
}

// KVRepo stores resume records as JSON strings in a key-value store.
type KVRepo struct {
	store kv.Store
}

func NewKVRepo(store kv.Store) *KVRepo {
	return &KVRepo{store: store}
}

func (r *KVRepo) List(ctx context.Context) ([]Resume, error) {
	items, err := r.store.List(ctx, keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	now := time.Now().UTC()
	out := make([]Resume, 0, len(items))
	for _, it := range items {
		rec, err := decodeRecord([]byte(it.Value), now)
		if err != nil {
			// One corrupt value must not take the listing down.
			telemetry.Error("resumes.decode_skip", map[string]any{
				"key":   it.Key,
				"error": err.Error(),
			})
			continue
		}
		if rec.ID == "" {
			rec.ID = strings.TrimPrefix(it.Key, keyPrefix)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *KVRepo) Get(ctx context.Context, id string) (Resume, error) {
	raw, err := r.store.Get(ctx, Key(id))
	if err != nil {
		if err == kv.ErrNotFound {
			return Resume{}, ErrNotFound
		}
		return Resume{}, fmt.Errorf("get resume %s: %w", id, err)
	}
	rec, err := decodeRecord([]byte(raw), time.Now().UTC())
	if err != nil {
		return Resume{}, fmt.Errorf("decode resume %s: %w", id, err)
	}
	if rec.ID == "" {
		rec.ID = id
	}
	return rec, nil
}

func (r *KVRepo) Save(ctx context.Context, rec Resume) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode resume %s: %w", rec.ID, err)
	}
	if err := r.store.Set(ctx, Key(rec.ID), string(raw)); err != nil {
		return fmt.Errorf("save resume %s: %w", rec.ID, err)
	}
	return nil
}

func (r *KVRepo) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, Key(id)); err != nil && err != kv.ErrNotFound {
		return fmt.Errorf("delete resume %s: %w", id, err)
	}
	return nil
}

// decodeRecord parses a stored record and backfills timestamps written
// before the dates were tracked: a missing createdAt becomes now, a
// missing updatedAt becomes createdAt. The backfill is load-time only.
func decodeRecord(raw []byte, now time.Time) (Resume, error) {
	var rec Resume
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Resume{}, err
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = rec.CreatedAt
	}
	return rec, nil
}

var _ Repo = (*KVRepo)(nil)
