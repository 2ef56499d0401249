package channels

import "testing"

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		want    string
		wantErr bool
	}{
		{"bare ten digits", "9876543210", "+919876543210", false},
		{"spaces and dashes", "98765 432-10", "+919876543210", false},
		{"already has country code", "919876543210", "+919876543210", false},
		{"plus prefixed", "+919876543210", "+919876543210", false},
		{"foreign number with plus", "+14155552671", "+14155552671", false},
		{"too short", "12345", "", true},
		{"empty", "", "", true},
		{"letters only", "call-me", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeE164(tt.phone, "91")
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeE164(%q) error = %v, wantErr %v", tt.phone, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizeE164(%q) = %q, want %q", tt.phone, got, tt.want)
			}
		})
	}
}
