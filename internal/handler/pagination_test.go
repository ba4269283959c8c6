package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"デフォルト値", "", 1, defaultPageSize},
		{"明示指定", "?page=3&limit=50", 3, 50},
		{"上限超過のlimitは丸める", "?limit=500", 1, maxPageSize},
		{"負のpageはデフォルト", "?page=-1", 1, defaultPageSize},
		{"ゼロのlimitはデフォルト", "?limit=0", 1, defaultPageSize},
		{"数値でない値はデフォルト", "?page=abc&limit=xyz", 1, defaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/posts"+tt.query, nil)
			page, limit := parsePagination(req)
			if page != tt.wantPage {
				t.Errorf("page = %d, want %d", page, tt.wantPage)
			}
			if limit != tt.wantLimit {
				t.Errorf("limit = %d, want %d", limit, tt.wantLimit)
			}
		})
	}
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name           string
		page, limit    int
		total          int
		wantTotalPages int
		wantHasNext    bool
		wantHasPrev    bool
	}{
		{"先頭ページ", 1, 20, 45, 3, true, false},
		{"中間ページ", 2, 20, 45, 3, true, true},
		{"最終ページ", 3, 20, 45, 3, false, true},
		{"結果ゼロ件", 1, 20, 0, 0, false, false},
		{"ちょうど1ページ", 1, 20, 20, 1, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPagination(tt.page, tt.limit, tt.total)
			if p.TotalPages != tt.wantTotalPages {
				t.Errorf("totalPages = %d, want %d", p.TotalPages, tt.wantTotalPages)
			}
			if p.TotalItems != tt.total {
				t.Errorf("totalItems = %d, want %d", p.TotalItems, tt.total)
			}
			if p.HasNext != tt.wantHasNext {
				t.Errorf("hasNext = %v, want %v", p.HasNext, tt.wantHasNext)
			}
			if p.HasPrev != tt.wantHasPrev {
				t.Errorf("hasPrev = %v, want %v", p.HasPrev, tt.wantHasPrev)
			}
		})
	}
}
