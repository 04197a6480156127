package orchestrators

import (
	"context"
	"errors"
	"strings"
	"testing"

	"venuedesk/internal/domain/audit"
	"venuedesk/internal/domain/member"
)

// TestExecuteAddMember_Valid tests adding a member and the audit detail.
func TestExecuteAddMember_Valid(t *testing.T) {
	store := &mockMemberStore{}
	log := newMockAuditLog()

	m, err := ExecuteAddMember(context.Background(), AddMemberInput{
		Name: "  Alan Turing ", Role: member.RoleAdmin, Contact: " alan@example.org ", AddedBy: "staff@venue.example",
	}, AddMemberDeps{Store: store, Audit: log.deps()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Name != "Alan Turing" || m.Contact != "alan@example.org" {
		t.Errorf("expected trimmed fields, got %+v", m)
	}
	if len(store.members) != 1 || store.members[0].AddedBy != "staff@venue.example" {
		t.Fatalf("expected member stored with adder, got %+v", store.members)
	}
	entries := log.entries[audit.ChannelAccess]
	if len(entries) != 1 {
		t.Fatalf("expected 1 access entry, got %d", len(entries))
	}
	if entries[0].EventType != audit.EventAddMember || entries[0].Details != "Added Alan Turing as Admin" {
		t.Errorf("unexpected entry %+v", entries[0])
	}
}

// TestExecuteAddMember_Invalid tests validation failures.
func TestExecuteAddMember_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input AddMemberInput
		want  error
	}{
		{"empty name", AddMemberInput{Name: "  ", Role: member.RoleMember}, member.ErrEmptyName},
		{"long name", AddMemberInput{Name: strings.Repeat("n", 101), Role: member.RoleMember}, member.ErrNameTooLong},
		{"long contact", AddMemberInput{Name: "n", Role: member.RoleMember, Contact: strings.Repeat("c", 201)}, member.ErrContactTooLong},
		{"bad role", AddMemberInput{Name: "n", Role: "Owner"}, member.ErrInvalidRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockMemberStore{}
			log := newMockAuditLog()
			_, err := ExecuteAddMember(context.Background(), tt.input, AddMemberDeps{Store: store, Audit: log.deps()})
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if len(store.members) != 0 || len(log.entries) != 0 {
				t.Error("expected no writes")
			}
		})
	}
}
