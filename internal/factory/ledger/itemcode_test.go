package ledger

import "testing"

func TestNormalizeItemCode(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"already canonical", "MSK-101", "MSK-101", false},
		{"lowercase prefix", "msk-5", "MSK-5", false},
		{"bare digits get prefix", "101", "MSK-101", false},
		{"whitespace trimmed", "  msk-42  ", "MSK-42", false},
		{"digits with whitespace", " 7 ", "MSK-7", false},
		{"empty", "", "", true},
		{"blank", "   ", "", true},
		{"word", "hello", "", true},
		{"wrong prefix", "ABC-101", "", true},
		{"missing digits", "MSK-", "", true},
		{"trailing junk", "MSK-101x", "", true},
		{"internal space", "MSK- 101", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeItemCode(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("NormalizeItemCode(%q) = %q, want error", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeItemCode(%q) returned error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("NormalizeItemCode(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
