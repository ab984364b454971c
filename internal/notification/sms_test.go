package notification

import "testing"

func TestSMSItemValidate(t *testing.T) {
	tests := []struct {
		name       string
		item       SMSItem
		wantFields []string
	}{
		{
			name: "valid",
			item: SMSItem{SendTo: []string{"+12025550123"}, Message: "hello"},
		},
		{
			name:       "missing message",
			item:       SMSItem{SendTo: []string{"+12025550123"}},
			wantFields: []string{"message"},
		},
		{
			name:       "missing recipients",
			item:       SMSItem{Message: "hello"},
			wantFields: []string{"send_to"},
		},
		{
			name:       "number without plus prefix",
			item:       SMSItem{SendTo: []string{"12025550123"}, Message: "hello"},
			wantFields: []string{"send_to"},
		},
		{
			name:       "number with letters",
			item:       SMSItem{SendTo: []string{"+1202call"}, Message: "hello"},
			wantFields: []string{"send_to"},
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
