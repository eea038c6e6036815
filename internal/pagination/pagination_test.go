package pagination

import "testing"

func TestPageRequest_Defaults(t *testing.T) {
	tests := []struct {
		name         string
		in           PageRequest
		wantPage     int
		wantPageSize int
		wantOffset   int
	}{
		{"empty", PageRequest{}, 1, DefaultPageSize, 0},
		{"third page", PageRequest{Page: 3, PageSize: 10}, 3, 10, 20},
		{"oversized", PageRequest{Page: 1, PageSize: 500}, 1, MaxPageSize, 0},
		{"negative", PageRequest{Page: -2, PageSize: -1}, 1, DefaultPageSize, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			p.Defaults()
			if p.Page != tt.wantPage || p.PageSize != tt.wantPageSize {
				t.Errorf("got page=%d size=%d, want %d/%d", p.Page, p.PageSize, tt.wantPage, tt.wantPageSize)
			}
			if p.Offset() != tt.wantOffset {
				t.Errorf("offset = %d, want %d", p.Offset(), tt.wantOffset)
			}
		})
	}
}

func TestNewPageResponse(t *testing.T) {
	resp := NewPageResponse[string](nil, 1, 20, 0)
	if resp.Data == nil || resp.TotalPages != 0 || resp.HasMore {
		t.Errorf("unexpected empty page %+v", resp)
	}

	resp = NewPageResponse([]string{"a", "b"}, 1, 2, 5)
	if resp.TotalPages != 3 || !resp.HasMore {
		t.Errorf("expected 3 pages with more to come, got %+v", resp)
	}

	resp = NewPageResponse([]string{"e"}, 3, 2, 5)
	if resp.HasMore {
		t.Error("last page should not report more")
	}
}
