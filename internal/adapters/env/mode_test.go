package env

import (
	"testing"
)

func TestDetectDebug(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", false},
		{"0", false},
		{"1", true},
		{"TRUE", true},
		{" yes ", true},
		{"nope", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("SEMKIT_DEBUG", tt.value)
			if got := DetectDebug(); got != tt.want {
				t.Errorf("DetectDebug() with %q = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	t.Setenv("SEMKIT_THEME", "sky")
	v, ok := Lookup("SEMKIT_THEME")
	if !ok || v != "sky" {
		t.Errorf("Lookup = %q, %v", v, ok)
	}
}
