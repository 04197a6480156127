package projections

import (
	"context"

	"venuedesk/internal/application/listutil"
	domainMember "venuedesk/internal/domain/member"
)

// MemberListQuery carries query parameters.
type MemberListQuery struct {
	Filter listutil.FilterParams
	Page   listutil.PageParams
}

// MemberListResult carries the query result.
type MemberListResult struct {
	Members []domainMember.Member
	Page    listutil.PageInfo
}

// MemberListDeps holds dependencies for QueryMemberList.
type MemberListDeps struct {
	Store MemberLister
}

// QueryMemberList returns the directory in sheet order, optionally searched
// by name, contact or role.
func QueryMemberList(ctx context.Context, query MemberListQuery, deps MemberListDeps) (MemberListResult, error) {
	members, err := deps.Store.List(ctx)
	if err != nil {
		return MemberListResult{}, err
	}
	var matched []domainMember.Member
	for _, m := range members {
		if !query.Filter.Matches(m.Name, m.Contact, m.Role) {
			continue
		}
		if r := query.Filter.Filter("role"); r != "" && m.Role != r {
			continue
		}
		matched = append(matched, m)
	}
	page, info := listutil.Paginate(matched, query.Page)
	return MemberListResult{Members: page, Page: info}, nil
}
