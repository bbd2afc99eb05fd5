package analyses

import (
	"context"
	"encoding/json"
)

// Repo persists analyses. Reads are scoped to the owning user.
type Repo interface {
	Create(ctx context.Context, record Record) error
	GetByID(ctx context.Context, userID, analysisID string) (Record, error)
	Latest(ctx context.Context, userID string) (Record, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Record, error)
}

// encodeAnalysis returns the stored form of the record's analysis, marshaling
// it once if the caller has not already done so.
func encodeAnalysis(record Record) (json.RawMessage, error) {
	if len(record.AnalysisJSON) > 0 {
		return record.AnalysisJSON, nil
	}
	return json.Marshal(record.Analysis)
}

func decodeAnalysis(raw []byte) (StructuredAnalysis, error) {
	var a StructuredAnalysis
	if err := json.Unmarshal(raw, &a); err != nil {
		return StructuredAnalysis{}, err
	}
	return a, nil
}
