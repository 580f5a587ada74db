package diff

import "testing"

func TestFindPatchesApply(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
	}{
		{"empty to text", "", "<p>hello</p>"},
		{"edit", "<p>hello world</p>", "<p>hello there, world</p>"},
		{"to empty", "<p>gone</p>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patch := FindPatches(tt.from, tt.to)
			got, err := Apply(tt.from, patch)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.to {
				t.Errorf("expected %q, got %q", tt.to, got)
			}
		})
	}
}
