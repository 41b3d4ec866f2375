package notifications

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		name    string
		phone   string
		country string
		want    string
	}{
		{"burkina local 8 digits", "70123456", "Burkina Faso", "+22670123456"},
		{"burkina local with spaces", "70 12 34 56", "BFA", "+22670123456"},
		{"usa local 10 digits", "5551234567", "USA", "+15551234567"},
		{"usa local with separators", "(555) 123-4567", "USA", "+15551234567"},
		{"already e164 burkina", "+22670123456", "Burkina Faso", "+22670123456"},
		{"already e164 usa", "+15551234567", "USA", "+15551234567"},
		{"burkina prefix without plus", "22670123456", "Burkina Faso", "+22670123456"},
		{"usa prefix without plus", "15551234567", "USA", "+15551234567"},
		{"8 digits with unknown country", "70123456", "France", "+22670123456"},
		{"10 digits with unknown country", "5551234567", "France", "+15551234567"},
		{"empty", "", "USA", ""},
		{"no digits", "+- ()", "USA", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizePhone(tc.phone, tc.country); got != tc.want {
				t.Fatalf("NormalizePhone(%q, %q) = %q, want %q", tc.phone, tc.country, got, tc.want)
			}
		})
	}
}
