package cli

import (
	"testing"
	"time"
)

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		// timestamps
		{"00:00:05.000", 5 * time.Second, false},
		{"01:02:03.450", time.Hour + 2*time.Minute + 3*time.Second + 450*time.Millisecond, false},
		{"00:01:02,500", time.Minute + 2*time.Second + 500*time.Millisecond, false},
		{"00:00:01.5", 1500 * time.Millisecond, false},
		{" 00:00:10 ", 10 * time.Second, false},

		// plain seconds
		{"90", 90 * time.Second, false},
		{"7.5", 7500 * time.Millisecond, false},
		{"0", 0, false},

		// invalid
		{"abc", 0, true},
		{"-5", 0, true},
		{"1:02", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePosition(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePosition(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parsePosition(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
