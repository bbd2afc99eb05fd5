package roadmaps

import (
	"context"
	"encoding/json"
)

// Repo persists roadmaps. Reads are scoped to the owning user.
type Repo interface {
	Create(ctx context.Context, record Record) error
	GetByID(ctx context.Context, userID, roadmapID string) (Record, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Record, error)
}

func encodeGraph(record Record) (json.RawMessage, error) {
	if len(record.GraphJSON) > 0 {
		return record.GraphJSON, nil
	}
	return json.Marshal(record.Graph)
}
