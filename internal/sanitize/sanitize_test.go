package sanitize

import "testing"

func TestHTML(t *testing.T) {
	s := New(nil)
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"plain paragraph", "<p>hello</p>", "<p>hello</p>"},
		{"script removed with content", "<p>hi</p><script>alert(1)</script>", "<p>hi</p>"},
		{"event handler stripped", `<p onclick="x()">hi</p>`, "<p>hi</p>"},
		{"mention link kept", `<a href="https://remote.example/@bob" class="mention" target="_blank">@bob</a>`, `<a href="https://remote.example/@bob" class="mention">@bob</a>`},
		{"javascript href dropped", `<a href="javascript:alert(1)">x</a>`, "<a>x</a>"},
		{"unknown tag unwrapped", "<div><p>a</p></div>", "<p>a</p>"},
		{"text escaped", "1 &lt; 2", "1 &lt; 2"},
		{"line break", "a<br>b", "a<br>b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.HTML(tt.in); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestText(t *testing.T) {
	s := New(nil)
	if got := s.Text(`<b>content</b> warning<style>p{}</style>`); got != "content warning" {
		t.Errorf("unexpected text %q", got)
	}
}
