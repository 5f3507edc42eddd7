package domain

import "time"

// Ticket records one support session of a requester, opened when the
// session opens and closed on explicit close or disconnect.
type Ticket struct {
	ID          string
	RequesterID string
	Open        bool
	OpenedAt    time.Time
	ClosedAt    time.Time
}
