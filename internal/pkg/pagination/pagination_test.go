package pagination

import "testing"

func TestSolveBounds(t *testing.T) {
	cases := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{1, 10, 1, 10},
		{0, 10, 1, 10},
		{-5, 0, 1, 10},
		{3, 500, 3, 100},
		{2, 25, 2, 25},
	}
	for _, tc := range cases {
		q := Solve(tc.page, tc.limit)
		if q.Page != tc.wantPage || q.Limit != tc.wantLimit {
			t.Fatalf("Solve(%d, %d) = %+v, want page=%d limit=%d",
				tc.page, tc.limit, q, tc.wantPage, tc.wantLimit)
		}
	}
}

func TestOffset(t *testing.T) {
	if got := Solve(1, 10).Offset(); got != 0 {
		t.Fatalf("offset for page 1 = %d, want 0", got)
	}
	if got := Solve(3, 25).Offset(); got != 50 {
		t.Fatalf("offset for page 3 limit 25 = %d, want 50", got)
	}
}

func TestMeta(t *testing.T) {
	m := Meta(21, Solve(2, 10))
	if m.Total != 21 || m.TotalPage != 3 || m.CurrentPage != 2 || !m.HasNextPage {
		t.Fatalf("meta = %+v", m)
	}

	last := Meta(21, Solve(3, 10))
	if last.HasNextPage {
		t.Fatalf("page 3 of 3 should have no next page: %+v", last)
	}

	empty := Meta(0, Solve(1, 10))
	if empty.TotalPage != 0 || empty.HasNextPage {
		t.Fatalf("empty meta = %+v", empty)
	}
}
