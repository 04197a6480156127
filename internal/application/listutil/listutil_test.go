package listutil

import (
	"net/url"
	"testing"
)

// TestParsePageParams_Defaults verifies default page params when no query values provided.
func TestParsePageParams_Defaults(t *testing.T) {
	q := url.Values{}
	p := ParsePageParams(q)
	if p.Page != 1 {
		t.Errorf("expected page 1, got %d", p.Page)
	}
	if p.PerPage != DefaultPerPage {
		t.Errorf("expected per_page %d, got %d", DefaultPerPage, p.PerPage)
	}
}

// TestParsePageParams_Valid verifies correct parsing of valid page and per_page values.
func TestParsePageParams_Valid(t *testing.T) {
	q := url.Values{"page": {"3"}, "per_page": {"50"}}
	p := ParsePageParams(q)
	if p.Page != 3 {
		t.Errorf("expected page 3, got %d", p.Page)
	}
	if p.PerPage != 50 {
		t.Errorf("expected per_page 50, got %d", p.PerPage)
	}
}

// TestParsePageParams_InvalidPerPage verifies fallback to default for invalid per_page.
func TestParsePageParams_InvalidPerPage(t *testing.T) {
	q := url.Values{"per_page": {"30"}} // not in allowed list
	p := ParsePageParams(q)
	if p.PerPage != DefaultPerPage {
		t.Errorf("expected default per_page %d for invalid value, got %d", DefaultPerPage, p.PerPage)
	}
}

// TestParsePageParams_NegativePage verifies page is clamped to 1 for negative input.
func TestParsePageParams_NegativePage(t *testing.T) {
	q := url.Values{"page": {"-1"}}
	p := ParsePageParams(q)
	if p.Page != 1 {
		t.Errorf("expected page 1 for negative input, got %d", p.Page)
	}
}

// TestParseSortParams_Valid verifies correct parsing of sort column and direction.
func TestParseSortParams_Valid(t *testing.T) {
	q := url.Values{"sort": {"date"}, "dir": {"desc"}}
	s := ParseSortParams(q, []string{"date", "name"})
	if s.Sort != "date" {
		t.Errorf("expected sort=date, got %s", s.Sort)
	}
	if !s.Desc() {
		t.Errorf("expected dir=desc, got %s", s.Dir)
	}
}

// TestParseSortParams_DisallowedColumn verifies disallowed sort columns are rejected.
func TestParseSortParams_DisallowedColumn(t *testing.T) {
	q := url.Values{"sort": {"audit_trail_id"}}
	s := ParseSortParams(q, []string{"date", "name"})
	if s.Sort != "" {
		t.Errorf("expected empty sort for disallowed column, got %s", s.Sort)
	}
}

// TestParseSortParams_InvalidDir verifies invalid direction defaults to asc.
func TestParseSortParams_InvalidDir(t *testing.T) {
	q := url.Values{"sort": {"date"}, "dir": {"sideways"}}
	s := ParseSortParams(q, []string{"date"})
	if s.Dir != "asc" {
		t.Errorf("expected dir=asc for invalid dir, got %s", s.Dir)
	}
}

// TestParseFilterParams verifies search and filter extraction from query values.
func TestParseFilterParams(t *testing.T) {
	q := url.Values{"q": {" 021 "}, "status": {"Confirmed"}, "unknown": {"x"}}
	f := ParseFilterParams(q, []string{"status", "time_slot"})
	if f.Search != "021" {
		t.Errorf("expected trimmed search=021, got %q", f.Search)
	}
	if f.Filter("status") != "Confirmed" {
		t.Errorf("expected status=Confirmed, got %s", f.Filter("status"))
	}
	if _, ok := f.Filters["unknown"]; ok {
		t.Error("unexpected filter key 'unknown'")
	}
}

// TestNewPageInfo verifies pagination metadata computation.
func TestNewPageInfo(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		perPage    int
		total      int
		wantPages  int
		wantPage   int
		wantStart  int
		wantEnd    int
		wantOffset int
	}{
		{"basic", 1, 25, 85, 4, 1, 1, 25, 0},
		{"page2", 2, 25, 85, 4, 2, 26, 50, 25},
		{"lastPage", 4, 25, 85, 4, 4, 76, 85, 75},
		{"pageBeyondTotal", 10, 25, 85, 4, 4, 76, 85, 75},
		{"zeroPerPage", 1, 0, 30, 2, 1, 1, 25, 0},
		{"emptyList", 1, 20, 0, 1, 1, 0, 0, 0},
		{"exactFit", 1, 10, 10, 1, 1, 1, 10, 0},
		{"singleRow", 1, 20, 1, 1, 1, 1, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pi := NewPageInfo(tt.page, tt.perPage, tt.total)
			if pi.TotalPages != tt.wantPages {
				t.Errorf("TotalPages: got %d, want %d", pi.TotalPages, tt.wantPages)
			}
			if pi.Page != tt.wantPage {
				t.Errorf("Page: got %d, want %d", pi.Page, tt.wantPage)
			}
			if pi.StartRow() != tt.wantStart {
				t.Errorf("StartRow: got %d, want %d", pi.StartRow(), tt.wantStart)
			}
			if pi.EndRow() != tt.wantEnd {
				t.Errorf("EndRow: got %d, want %d", pi.EndRow(), tt.wantEnd)
			}
			if pi.Offset() != tt.wantOffset {
				t.Errorf("Offset: got %d, want %d", pi.Offset(), tt.wantOffset)
			}
		})
	}
}

// TestPageNumbers verifies page number window generation.
func TestPageNumbers(t *testing.T) {
	tests := []struct {
		name string
		page int
		tot  int
		want []int
	}{
		{"3pages_at1", 1, 3, []int{1, 2, 3}},
		{"10pages_at1", 1, 10, []int{1, 2, 3, 4, 5}},
		{"10pages_at5", 5, 10, []int{3, 4, 5, 6, 7}},
		{"10pages_at10", 10, 10, []int{6, 7, 8, 9, 10}},
		{"1page", 1, 1, []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pi := NewPageInfo(tt.page, 20, tt.tot*20)
			got := pi.PageNumbers()
			if len(got) != len(tt.want) {
				t.Fatalf("PageNumbers length: got %d, want %d", len(got), len(tt.want))
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("PageNumbers[%d]: got %d, want %d", i, v, tt.want[i])
				}
			}
		})
	}
}

// TestShowPagination verifies pagination visibility logic.
func TestShowPagination(t *testing.T) {
	if NewPageInfo(1, 20, 20).ShowPagination() {
		t.Error("should not show pagination when total == perPage")
	}
	if !NewPageInfo(1, 20, 21).ShowPagination() {
		t.Error("should show pagination when total > perPage")
	}
}

// TestFilterParams_Matches verifies case-insensitive substring search.
func TestFilterParams_Matches(t *testing.T) {
	tests := []struct {
		search string
		fields []string
		want   bool
	}{
		{"", []string{"anything"}, true},
		{"021", []string{"Ada", "021 555 0101"}, true},
		{"ADA", []string{"ada lovelace"}, true},
		{"zzz", []string{"ada", "021"}, false},
		{"x", nil, false},
	}
	for _, tt := range tests {
		f := FilterParams{Search: tt.search}
		if got := f.Matches(tt.fields...); got != tt.want {
			t.Errorf("Matches(%q, %v) = %v, want %v", tt.search, tt.fields, got, tt.want)
		}
	}
}

// TestPaginate verifies in-memory page windows.
func TestPaginate(t *testing.T) {
	items := make([]int, 23)
	for i := range items {
		items[i] = i + 1
	}

	page, info := Paginate(items, PageParams{Page: 3, PerPage: 10})
	if len(page) != 3 || page[0] != 21 || page[2] != 23 {
		t.Errorf("page 3: got %v", page)
	}
	if info.TotalPages != 3 || info.Total != 23 {
		t.Errorf("unexpected info %+v", info)
	}

	page, info = Paginate(items, PageParams{Page: 9, PerPage: 10})
	if info.Page != 3 || len(page) != 3 {
		t.Errorf("out-of-range page should clamp to last, got page=%d len=%d", info.Page, len(page))
	}

	page, info = Paginate([]int(nil), PageParams{Page: 1, PerPage: 10})
	if page != nil || info.StartRow() != 0 {
		t.Errorf("empty input: got %v %+v", page, info)
	}
}
