package cache

import "testing"

func TestKey_Deterministic(t *testing.T) {
	if Key("lofi beats") != Key("lofi beats") {
		t.Error("identical queries produced different keys")
	}
}

func TestKey_NormalizesCaseAndWhitespace(t *testing.T) {
	tests := []struct {
		name string
		a, b string
	}{
		{"case insensitive", "Lofi Beats", "lofi beats"},
		{"surrounding whitespace", "  lofi beats  ", "lofi beats"},
		{"mixed", "\tLOFI BEATS\n", "lofi beats"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if Key(tt.a) != Key(tt.b) {
				t.Errorf("Key(%q) != Key(%q)", tt.a, tt.b)
			}
		})
	}
}

func TestKey_DistinctQueries(t *testing.T) {
	if Key("lofi beats") == Key("jazz piano") {
		t.Error("distinct queries produced the same key")
	}
}

func TestKey_FixedLength(t *testing.T) {
	for _, q := range []string{"", "a", "a much longer query with many words"} {
		if got := len(Key(q)); got != 64 {
			t.Errorf("len(Key(%q)) = %d, want 64", q, got)
		}
	}
}
