package orchestrators

import (
	"context"
	"fmt"
	"strings"

	"venuedesk/internal/domain/audit"
	"venuedesk/internal/domain/member"
)

// MemberAppender adds membership rows.
type MemberAppender interface {
	Append(ctx context.Context, m member.Member) error
}

// AddMemberInput carries input for ExecuteAddMember.
type AddMemberInput struct {
	Name    string
	Role    string
	Contact string
	AddedBy string
}

// AddMemberDeps holds dependencies for ExecuteAddMember.
type AddMemberDeps struct {
	Store MemberAppender
	Audit AuditDeps
}

// ExecuteAddMember validates and appends a member.
// PRE: AddedBy is the authenticated staff email
// POST: one row appended; audited as "Added {name} as {role}"
func ExecuteAddMember(ctx context.Context, input AddMemberInput, deps AddMemberDeps) (member.Member, error) {
	m := member.Member{
		Name:    strings.TrimSpace(input.Name),
		Role:    input.Role,
		Contact: strings.TrimSpace(input.Contact),
		AddedBy: input.AddedBy,
	}
	if err := m.Validate(); err != nil {
		return member.Member{}, err
	}
	if err := deps.Store.Append(ctx, m); err != nil {
		return member.Member{}, fmt.Errorf("save member: %w", err)
	}
	LogEvent(ctx, deps.Audit, audit.EventAddMember, input.AddedBy, fmt.Sprintf("Added %s as %s", m.Name, m.Role))
	return m, nil
}
