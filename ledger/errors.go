package ledger

import (
    "fmt"
)

// ValidationError reports a missing or malformed input. The store is never
// touched when one is returned.
type ValidationError struct {
    Field  string
    Reason string
}

func (e *ValidationError) Error() string {
    return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// OutOfRangeError reports an invalid settlement history index on delete.
type OutOfRangeError struct {
    Index  int
    Length int
}

func (e *OutOfRangeError) Error() string {
    return fmt.Sprintf("history index %d out of range (length %d)", e.Index, e.Length)
}

// StoreError wraps a failed persistence round trip. No partial state is
// committed when one is returned; callers should re-fetch before retrying.
type StoreError struct {
    Op  string
    Err error
}

func (e *StoreError) Error() string {
    return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
    return e.Err
}
