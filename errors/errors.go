package errors

import "fmt"

var (
	// Authentication: the connection is rejected before any identity exists.
	ErrInvalidCredential = fmt.Errorf("invalid credential, need login")
	ErrInvalidPassword   = fmt.Errorf("password does not meet complexity requirements")
	ErrUserAlreadyExists = fmt.Errorf("user already exists")
	ErrUserNotFound      = fmt.Errorf("user not found")

	// Validation: the offending event is dropped, the sender is notified,
	// no state is mutated.
	ErrMissingReceiver = fmt.Errorf("agent message requires a receiver")
	ErrEmptyBody       = fmt.Errorf("message body is empty")

	// Persistence I/O failure. Never fatal: saves are logged and swallowed,
	// history reads degrade to an empty page.
	ErrStoreUnavailable = fmt.Errorf("message store unavailable")

	ErrWorkerPanic = fmt.Errorf("worker panic")
)
