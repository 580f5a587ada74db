// Package sanitize cleans the HTML carried by remote objects before it is stored.
package sanitize

import (
	"html"
	"strings"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Policy maps every allowed element to the attributes it may keep.
type Policy map[atom.Atom][]string

var DefaultPolicy = Policy{
	atom.P:          nil,
	atom.Br:         nil,
	atom.Span:       {"class"},
	atom.A:          {"href", "rel", "class"},
	atom.Strong:     nil,
	atom.B:          nil,
	atom.Em:         nil,
	atom.I:          nil,
	atom.U:          nil,
	atom.Del:        nil,
	atom.Code:       nil,
	atom.Pre:        nil,
	atom.Blockquote: nil,
	atom.Ul:         nil,
	atom.Ol:         nil,
	atom.Li:         nil,
}

// dropped elements lose their content along with their tags.
var dropped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Iframe:   true,
	atom.Object:   true,
	atom.Template: true,
}

type Sanitizer struct {
	policy Policy
}

func New(policy Policy) *Sanitizer {
	if policy == nil {
		policy = DefaultPolicy
	}
	return &Sanitizer{policy: policy}
}

// HTML rewrites in keeping only the elements and attributes the policy allows.
func (s *Sanitizer) HTML(in string) string {
	var b strings.Builder
	z := xhtml.NewTokenizer(strings.NewReader(in))
	skip := 0

	for {
		tt := z.Next()
		switch tt {
		case xhtml.ErrorToken:
			// io.EOF or a malformed document; both end the output.
			return b.String()
		case xhtml.TextToken:
			if skip == 0 {
				b.WriteString(html.EscapeString(string(z.Text())))
			}
		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			tok := z.Token()
			if dropped[tok.DataAtom] {
				if tt == xhtml.StartTagToken {
					skip++
				}
				continue
			}
			if skip > 0 {
				continue
			}
			attrs, ok := s.policy[tok.DataAtom]
			if !ok {
				continue
			}
			b.WriteByte('<')
			b.WriteString(tok.Data)
			for _, a := range tok.Attr {
				if !allowedAttr(attrs, a) {
					continue
				}
				b.WriteByte(' ')
				b.WriteString(a.Key)
				b.WriteString(`="`)
				b.WriteString(html.EscapeString(a.Val))
				b.WriteByte('"')
			}
			if tt == xhtml.SelfClosingTagToken {
				b.WriteString(" /")
			}
			b.WriteByte('>')
		case xhtml.EndTagToken:
			tok := z.Token()
			if dropped[tok.DataAtom] {
				if skip > 0 {
					skip--
				}
				continue
			}
			if skip > 0 {
				continue
			}
			if _, ok := s.policy[tok.DataAtom]; ok && tok.DataAtom != atom.Br {
				b.WriteString("</")
				b.WriteString(tok.Data)
				b.WriteByte('>')
			}
		}
	}
}

// Text strips every tag from in, leaving escaped text only.
func (s *Sanitizer) Text(in string) string {
	var b strings.Builder
	z := xhtml.NewTokenizer(strings.NewReader(in))
	skip := 0
	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			return b.String()
		case xhtml.TextToken:
			if skip == 0 {
				b.WriteString(html.EscapeString(string(z.Text())))
			}
		case xhtml.StartTagToken:
			if name, _ := z.TagName(); dropped[atom.Lookup(name)] {
				skip++
			}
		case xhtml.EndTagToken:
			if name, _ := z.TagName(); dropped[atom.Lookup(name)] && skip > 0 {
				skip--
			}
		}
	}
}

func allowedAttr(allowed []string, a xhtml.Attribute) bool {
	if a.Namespace != "" {
		return false
	}
	for _, k := range allowed {
		if k != a.Key {
			continue
		}
		if k == "href" {
			v := strings.ToLower(strings.TrimSpace(a.Val))
			return strings.HasPrefix(v, "https://") || strings.HasPrefix(v, "http://")
		}
		return true
	}
	return false
}
