package audit

import (
	"time"
)

// EventType names the kind of audit event.
type EventType string

const (
	EventLogin             EventType = "Login"
	EventLogout            EventType = "Logout"
	EventSession           EventType = "Session"
	EventAccess            EventType = "Access"
	EventReservation       EventType = "Reservation"
	EventReservationEdited EventType = "Reservation Edited"
	EventAddMember         EventType = "AddMember"
)

// Channel selects which log worksheet an entry is appended to.
type Channel string

const (
	// ChannelAccess covers login, logout, session and membership events.
	ChannelAccess Channel = "access"
	// ChannelReservation covers reservation creates and edits.
	ChannelReservation Channel = "reservation"
)

// Placeholder written for an empty actor or details cell.
const Placeholder = "N/A"

// UnknownActor is the actor recorded for requests without an identity.
const UnknownActor = "unknown"

// Columns is the header row of a log worksheet.
var Columns = []string{"Timestamp", "Event Type", "User Email", "Details"}

// Entry represents a single audit log row.
type Entry struct {
	Timestamp  time.Time
	EventType  EventType
	ActorEmail string
	Details    string
}

// NewEntry creates an entry stamped with now.
// PRE: eventType is non-empty
// POST: Timestamp is now in UTC
func NewEntry(now time.Time, eventType EventType, actor, details string) Entry {
	return Entry{
		Timestamp:  now.UTC(),
		EventType:  eventType,
		ActorEmail: actor,
		Details:    details,
	}
}

// ChannelFor returns the channel an event type is logged to.
func ChannelFor(e EventType) Channel {
	switch e {
	case EventReservation, EventReservationEdited:
		return ChannelReservation
	default:
		return ChannelAccess
	}
}

// ToRow renders the entry as [timestamp, event, actor, details].
// Empty actor and details are written as "N/A".
func (e Entry) ToRow() []string {
	return []string{
		e.Timestamp.UTC().Format(time.RFC3339),
		string(e.EventType),
		orPlaceholder(e.ActorEmail),
		orPlaceholder(e.Details),
	}
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}
