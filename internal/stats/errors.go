package stats

import (
	"errors"
	"fmt"
)

// Failure kinds. None of them is retried; the scheduler decides whether a
// shard-level failure aborts the run.
var (
	ErrShardDecode   = errors.New("shard decode failed")
	ErrArchiveIO     = errors.New("archive read failed")
	ErrOutputIO      = errors.New("output write failed")
	ErrWorkerFailure = errors.New("worker failed")
)

// ShardError ties a failure kind to the shard (or, for output failures, the
// file path) it happened on.
type ShardError struct {
	Shard string
	Kind  error
	Err   error
}

func (e *ShardError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Shard, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Shard, e.Kind, e.Err)
}

func (e *ShardError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
