package notification

import "testing"

func TestPushItemValidate(t *testing.T) {
	badge := 1

	tests := []struct {
		name       string
		item       PushItem
		wantFields []string
	}{
		{
			name: "valid",
			item: PushItem{Title: "T", Content: "C", Tokens: []string{"tok1", "tok2"}, BadgeCount: &badge},
		},
		{
			name:       "empty title",
			item:       PushItem{Content: "C", Tokens: []string{"tok1"}},
			wantFields: []string{"title"},
		},
		{
			name:       "empty content",
			item:       PushItem{Title: "T", Tokens: []string{"tok1"}},
			wantFields: []string{"content"},
		},
		{
			name:       "no tokens",
			item:       PushItem{Title: "T", Content: "C"},
			wantFields: []string{"tokens"},
		},
		{
			name:       "blank token",
			item:       PushItem{Title: "T", Content: "C", Tokens: []string{""}},
			wantFields: []string{"tokens"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs := tc.item.Validate()
			if len(tc.wantFields) == 0 {
				if !errs.Empty() {
					t.Fatalf("expected valid item, got errors: %v", errs)
				}
				return
			}
			for _, field := range tc.wantFields {
				if len(errs[field]) == 0 {
					t.Fatalf("expected error on field %q, got %v", field, errs)
				}
			}
		})
	}
}
