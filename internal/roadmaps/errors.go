package roadmaps

import "errors"

var (
	ErrNotFound         = errors.New("roadmap not found")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrUnparseableReply = errors.New("unparseable roadmap reply")
	ErrInvalidRoadmap   = errors.New("invalid roadmap")
)
