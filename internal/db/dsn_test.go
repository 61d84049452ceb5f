package db

import "testing"

func TestNormalizeDSN(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"url untouched", "postgres://u:p@localhost:5432/hb", "postgres://u:p@localhost:5432/hb"},
		{"url scheme variant", "postgresql://u@localhost/hb?sslmode=require", "postgresql://u@localhost/hb?sslmode=require"},
		{"quoted url", `"postgres://u:p@localhost/hb"`, "postgres://u:p@localhost/hb"},
		{"kv gets sslmode", "host=localhost user=hb dbname=hb", "host=localhost user=hb dbname=hb sslmode=disable"},
		{"kv keeps sslmode", "host=localhost sslmode=require", "host=localhost sslmode=require"},
		{"kv whitespace collapsed", "  host=localhost   user=hb ", "host=localhost user=hb sslmode=disable"},
		{"opaque passthrough", "file:test.db?mode=memory", "file:test.db?mode=memory"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeDSN(tc.in); got != tc.want {
				t.Fatalf("NormalizeDSN(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
