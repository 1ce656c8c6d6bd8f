package services

import "fmt"

// BulkDeleteError reports a bulk delete where some deletes failed.
// Orders deleted before the failure stay deleted.
type BulkDeleteError struct {
	Deleted int
	Failed  []string
	Err     error
}

func (e *BulkDeleteError) Error() string {
	return fmt.Sprintf("bulk delete: %d deleted, %d failed: %v", e.Deleted, len(e.Failed), e.Err)
}

func (e *BulkDeleteError) Unwrap() error {
	return e.Err
}
