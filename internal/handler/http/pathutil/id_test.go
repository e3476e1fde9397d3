package pathutil

import (
	"errors"
	"testing"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"123", 123, false},
		{"1", 1, false},
		{"abc", 0, true},
		{"0", 0, true},
		{"-1", 0, true},
		{"+5", 0, true},
		{"", 0, true},
		{"99999999999999999999", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseID(tt.raw)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidID) {
				t.Errorf("ParseID(%q) err = %v, want ErrInvalidID", tt.raw, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseID(%q) = %d, %v; want %d", tt.raw, got, err, tt.want)
		}
	}
}
