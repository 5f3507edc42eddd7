package domain

// SessionState is the lifecycle of one connection's support session.
// Never persisted: a reconnect starts Unopened again.
type SessionState int

const (
	SessionUnopened SessionState = iota
	SessionOpen
	SessionClosed
)

func (s SessionState) String() string {
	switch s {
	case SessionUnopened:
		return "unopened"
	case SessionOpen:
		return "open"
	case SessionClosed:
		return "closed"
	}
	return "unknown"
}
