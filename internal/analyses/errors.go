package analyses

import "errors"

var (
	ErrNotFound         = errors.New("analysis not found")
	ErrInvalidUpload    = errors.New("invalid upload")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrUnparseableReply = errors.New("unparseable analysis reply")
)
