package orchestrators

import (
	"context"
	"errors"
	"time"

	"venuedesk/internal/adapters/email"
	"venuedesk/internal/adapters/oauth"
	"venuedesk/internal/domain/audit"
	"venuedesk/internal/domain/member"
	"venuedesk/internal/domain/reservation"
)

var fixedTime = time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

func fixedID() string { return "test-id-001" }

var errStore = errors.New("store unavailable")

// mockAuditLog implements AuditAppender for testing.
type mockAuditLog struct {
	entries  map[audit.Channel][]audit.Entry
	failWith error
}

func newMockAuditLog() *mockAuditLog {
	return &mockAuditLog{entries: make(map[audit.Channel][]audit.Entry)}
}

// Append implements AuditAppender.
// PRE: none
// POST: entry recorded under channel unless failWith is set
func (m *mockAuditLog) Append(_ context.Context, ch audit.Channel, e audit.Entry) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.entries[ch] = append(m.entries[ch], e)
	return nil
}

func (m *mockAuditLog) deps() AuditDeps {
	return AuditDeps{Logger: m, Now: fixedNow}
}

// mockOAuth implements OAuthProvider for testing.
type mockOAuth struct {
	token   oauth.TokenResult
	profile oauth.UserProfile
	infoErr error
}

// ExchangeCode implements OAuthProvider.
// POST: returns the configured token regardless of code
func (m *mockOAuth) ExchangeCode(_ context.Context, _ string) oauth.TokenResult {
	return m.token
}

// FetchUserInfo implements OAuthProvider.
// POST: returns the configured profile or infoErr
func (m *mockOAuth) FetchUserInfo(_ context.Context, _ string) (oauth.UserProfile, error) {
	if m.infoErr != nil {
		return oauth.UserProfile{}, m.infoErr
	}
	return m.profile, nil
}

// mockAccess implements ApprovedEmailReader and ApprovedEmailAdder for testing.
type mockAccess struct {
	emails []string
	reads  int
	err    error
}

// ApprovedEmails implements ApprovedEmailReader.
// POST: reads is incremented on every call
func (m *mockAccess) ApprovedEmails(_ context.Context) ([]string, error) {
	m.reads++
	if m.err != nil {
		return nil, m.err
	}
	return append([]string(nil), m.emails...), nil
}

// Add implements ApprovedEmailAdder.
// POST: email present exactly once
func (m *mockAccess) Add(_ context.Context, e string) error {
	for _, v := range m.emails {
		if v == e {
			return nil
		}
	}
	m.emails = append(m.emails, e)
	return nil
}

// mockReservationStore implements ReservationAppender and ReservationEditStore.
// Rows are numbered from 2, matching a sheet with a header row.
type mockReservationStore struct {
	rows      []reservation.Reservation
	appendErr error
	listErr   error
	updates   []int
}

// ListFresh implements ReservationEditStore.
// POST: one record per stored row, Row = index + 2
func (m *mockReservationStore) ListFresh(_ context.Context) ([]reservation.Record, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]reservation.Record, 0, len(m.rows))
	for i, r := range m.rows {
		day, ok := reservation.ParseDateOrNull(r.Date)
		out = append(out, reservation.Record{
			Reservation: r,
			Row:         i + 2,
			PaxValue:    float64(r.Pax),
			Day:         day,
			HasDate:     ok,
		})
	}
	return out, nil
}

// Append implements ReservationAppender.
// POST: r stored as the last row unless appendErr is set
func (m *mockReservationStore) Append(_ context.Context, r reservation.Reservation) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.rows = append(m.rows, r)
	return nil
}

// Update implements ReservationEditStore.
// PRE: row >= 2
// POST: the row is replaced and recorded in updates
func (m *mockReservationStore) Update(_ context.Context, row int, r reservation.Reservation) error {
	i := row - 2
	if i < 0 || i >= len(m.rows) {
		return reservation.ErrNotFound
	}
	m.rows[i] = r
	m.updates = append(m.updates, row)
	return nil
}

// SetAuditID implements ReservationEditStore.
// POST: only the audit id of the row changes
func (m *mockReservationStore) SetAuditID(_ context.Context, row int, id string) error {
	i := row - 2
	if i < 0 || i >= len(m.rows) {
		return reservation.ErrNotFound
	}
	m.rows[i].AuditTrailID = id
	return nil
}

// mockMemberStore implements MemberAppender for testing.
type mockMemberStore struct {
	members []member.Member
}

// Append implements MemberAppender.
// POST: m stored
func (m *mockMemberStore) Append(_ context.Context, mem member.Member) error {
	m.members = append(m.members, mem)
	return nil
}

// mockSender implements Notifier for testing.
type mockSender struct {
	sent []email.SendRequest
	err  error
}

// Send implements Notifier.
// POST: req recorded even when err is set
func (m *mockSender) Send(_ context.Context, req email.SendRequest) (email.SendResult, error) {
	m.sent = append(m.sent, req)
	if m.err != nil {
		return email.SendResult{}, m.err
	}
	return email.SendResult{MessageID: "msg-1", SentAt: fixedTime}, nil
}

// mockTable implements SeedTableStore for testing.
type mockTable struct {
	rows [][]string
}

// ReadAllRows implements SeedTableStore.
func (m *mockTable) ReadAllRows(_ context.Context) ([][]string, error) {
	return m.rows, nil
}

// AppendRow implements SeedTableStore.
func (m *mockTable) AppendRow(_ context.Context, values []string) error {
	m.rows = append(m.rows, values)
	return nil
}
