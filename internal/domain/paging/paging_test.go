package paging

import "testing"

func TestNewPageTotals(t *testing.T) {
	cases := []struct {
		total     int64
		size      int
		wantPages int
	}{
		{total: 0, size: 10, wantPages: 0},
		{total: 1, size: 10, wantPages: 1},
		{total: 10, size: 10, wantPages: 1},
		{total: 11, size: 10, wantPages: 2},
	}
	for _, tc := range cases {
		p := New([]int{}, NewRequest(0, tc.size), tc.total)
		if p.TotalPages != tc.wantPages {
			t.Fatalf("total=%d size=%d: want pages=%d got=%d", tc.total, tc.size, tc.wantPages, p.TotalPages)
		}
	}
}

func TestNewRequestClamps(t *testing.T) {
	r := NewRequest(-3, 0)
	if r.Page != 0 || r.Size != SizeMedium {
		t.Fatalf("NewRequest: unexpected %+v", r)
	}
	if got := NewRequest(2, 5).Offset(); got != 10 {
		t.Fatalf("Offset: want=10 got=%d", got)
	}
	if p := New[string](nil, NewRequest(0, 5), 0); p.Content == nil {
		t.Fatalf("New: content must not be nil")
	}
}
