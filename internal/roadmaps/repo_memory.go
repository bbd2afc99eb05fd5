package roadmaps

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores roadmaps in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	byID   map[string]Record
	byUser map[string][]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:   make(map[string]Record),
		byUser: make(map[string][]string),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, record Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := encodeGraph(record)
	if err != nil {
		return err
	}
	record.GraphJSON = append([]byte(nil), raw...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[record.ID] = record
	r.byUser[record.UserID] = append(r.byUser[record.UserID], record.ID)
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID, roadmapID string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.byID[roadmapID]
	if !ok || record.UserID != userID {
		return Record{}, ErrNotFound
	}
	return record, nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	r.mu.RLock()
	ids := r.byUser[userID]
	records := make([]Record, 0, len(ids))
	for _, id := range ids {
		records = append(records, r.byID[id])
	}
	r.mu.RUnlock()

	if offset >= len(records) {
		return []Record{}, nil
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	end := len(records)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return records[offset:end], nil
}
