package ticket

import "errors"

// Caller-visible error taxonomy. All of these are synchronous logic or input
// errors; none are retried by the core.
var (
	ErrInvalidTransition  = errors.New("invalid transition")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrItemNotFound       = errors.New("item not found")
	ErrMalformedTicket    = errors.New("malformed ticket")
	ErrEmptyActionContext = errors.New("missing action context")
	ErrDuplicateTicket    = errors.New("duplicate ticket")
	ErrUnknownAction      = errors.New("unknown action")
)
