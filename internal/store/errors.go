package store

import "fmt"

// ProvisioningError is a database or table creation failure.
type ProvisioningError struct {
	Op  string
	Err error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("provisioning (%s): %v", e.Op, e.Err)
}

func (e *ProvisioningError) Unwrap() error { return e.Err }

// PersistenceError is an insert or commit failure. The whole batch rolls
// back; nothing is partially committed.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting articles: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ConnectError means the database could not be reached at all.
type ConnectError struct {
	Err error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connecting to database: %v", e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// QueryError is a read failure after a connection was established.
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("querying articles: %v", e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }
