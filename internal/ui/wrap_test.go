package ui

import "testing"

func TestWrapCaption(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{
			name:  "fits on one line",
			text:  "Hello world",
			width: 42,
			want:  []string{"Hello world"},
		},
		{
			name:  "balances near the midpoint",
			text:  "the quick brown fox jumps over the lazy dog",
			width: 20,
			want:  []string{"the quick brown fox", "jumps over the lazy dog"},
		},
		{
			name:  "single long word stays whole",
			text:  "supercalifragilisticexpialidocious",
			width: 10,
			want:  []string{"supercalifragilisticexpialidocious"},
		},
		{
			name:  "explicit breaks kept",
			text:  "Hello\nWorld",
			width: 42,
			want:  []string{"Hello", "World"},
		},
		{
			name:  "explicit break then balance",
			text:  "Hi\nthe quick brown fox jumps over the lazy dog",
			width: 20,
			want:  []string{"Hi", "the quick brown fox", "jumps over the lazy dog"},
		},
		{
			name:  "empty text",
			text:  "",
			width: 42,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapCaption(tt.text, tt.width)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d lines, got %d: %v", len(tt.want), len(got), got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("line %d: expected %q, got %q", i, tt.want[i], got[i])
				}
			}
		})
	}
}
