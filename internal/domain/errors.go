// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidReference indicates a repository identifier that cannot be split
// into an owner and a name. Callers can fix it by supplying a better reference.
var ErrInvalidReference = errors.New("invalid repository reference")

// ErrRepositoryAccess indicates the repository host was unreachable, the
// repository does not exist, or a metadata call failed.
var ErrRepositoryAccess = errors.New("failed to analyze repository")

// ErrBatchExecution indicates the execution engine failed while running a batch.
var ErrBatchExecution = errors.New("documentation batch failed")
