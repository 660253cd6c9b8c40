package pagination

import "testing"

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	tests := []struct {
		name      string
		req       PageRequest
		wantData  []int
		wantPages int
	}{
		{"defaults", PageRequest{}, []int{1, 2, 3, 4, 5}, 1},
		{"first page", PageRequest{Page: 1, PageSize: 2}, []int{1, 2}, 3},
		{"last partial page", PageRequest{Page: 3, PageSize: 2}, []int{5}, 3},
		{"past the end", PageRequest{Page: 9, PageSize: 2}, []int{}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slice(items, tt.req)
			if len(got.Data) != len(tt.wantData) {
				t.Fatalf("expected %v, got %v", tt.wantData, got.Data)
			}
			for i := range got.Data {
				if got.Data[i] != tt.wantData[i] {
					t.Errorf("expected %v, got %v", tt.wantData, got.Data)
				}
			}
			if got.TotalItems != 5 || got.TotalPages != tt.wantPages {
				t.Errorf("unexpected totals %d/%d", got.TotalItems, got.TotalPages)
			}
		})
	}
}

func TestSlice_Empty(t *testing.T) {
	got := Slice[string](nil, PageRequest{})
	if got.Data == nil || len(got.Data) != 0 || got.TotalPages != 0 {
		t.Errorf("expected empty non-nil page, got %+v", got)
	}
}
