package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	DefaultTransactionTimeout = 10 * time.Second
)

// Entry operation names reported to the Recorder.
const (
	OpSave         = "save"
	OpUpdate       = "update"
	OpDelete       = "delete"
	OpChangeStatus = "change_status"
)
