package domain

import (
	"errors"
	"fmt"
)

// ErrConfigNotFound marks an absent routing document. Callers that can treat
// "no rules" as normal (event handling, the archival default sweep) check for
// it explicitly.
var ErrConfigNotFound = errors.New("notification configuration not found")

// ConfigCorruptError marks a routing document that exists but does not parse.
// It is scoped to one tenant and never silently read as an empty rule set.
type ConfigCorruptError struct {
	TenantID int
	Err      error
}

func (e *ConfigCorruptError) Error() string {
	return fmt.Sprintf("corrupt notification configuration for tenant %d: %v", e.TenantID, e.Err)
}

func (e *ConfigCorruptError) Unwrap() error { return e.Err }

// DirectoryError marks a failed role-membership lookup. The enclosing notify
// operation aborts rather than notifying a partial recipient set.
type DirectoryError struct {
	Role string
	Err  error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("user directory lookup failed for role %q: %v", e.Role, e.Err)
}

func (e *DirectoryError) Unwrap() error { return e.Err }

// StoreError wraps a relational I/O failure with the operation and tenant it
// happened under.
type StoreError struct {
	Op       string
	TenantID int
	Err      error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("notification store: %s (tenant %d): %v", e.Op, e.TenantID, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// ArchivalError wraps any failure inside one tenant's archival run. The run
// fails as a whole; the caller retries the tenant, never single rows.
type ArchivalError struct {
	TenantID int
	Err      error
}

func (e *ArchivalError) Error() string {
	return fmt.Sprintf("archival run failed for tenant %d: %v", e.TenantID, e.Err)
}

func (e *ArchivalError) Unwrap() error { return e.Err }
