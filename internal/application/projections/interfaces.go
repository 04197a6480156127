package projections

import (
	"context"

	domainMember "venuedesk/internal/domain/member"
	"venuedesk/internal/domain/reservation"
)

// ReservationLister reads every reservation row.
type ReservationLister interface {
	List(ctx context.Context) ([]reservation.Record, error)
}

// MemberLister reads the membership directory.
type MemberLister interface {
	List(ctx context.Context) ([]domainMember.Member, error)
}
