// Package visibility derives the visibility of a post from its recipients and decides whether a post may be
// reblogged. Nothing here performs I/O.
package visibility

import (
	"slices"

	"github.com/sidereusnuntius/gofederate/internal/domain"
)

type Visibility string

const (
	Public   Visibility = "public"
	Unlisted Visibility = "unlisted"
	Private  Visibility = "private"
	Direct   Visibility = "direct"
)

type Audience struct {
	To []string
	Cc []string
}

func (a Audience) public() bool {
	return slices.Contains(a.To, domain.PublicGroup) || slices.Contains(a.Cc, domain.PublicGroup)
}

// Post is the subset of a stored object the reblog rules look at.
type Post struct {
	Author          string
	AuthorFollowers string
	Audience
}

// Detect returns the visibility of a post addressed to the given recipients.
func Detect(to, cc []string, followersURI string) Visibility {
	switch {
	case slices.Contains(to, domain.PublicGroup):
		return Public
	case followersURI != "" && slices.Contains(to, followersURI) && slices.Contains(cc, domain.PublicGroup):
		return Unlisted
	case followersURI != "" && slices.Contains(to, followersURI):
		return Private
	default:
		return Direct
	}
}

// ReblogNotAllowed reports whether actor may not announce post to the announce audience.
//
// Anyone may reblog a public or unlisted post. A private post may only be re-announced by its author, and
// never to a public audience. A direct post may only be re-announced by its author, to a subset of its
// original recipients.
func ReblogNotAllowed(actor string, post Post, announce Audience) bool {
	if actor != post.Author {
		return !post.public()
	}

	if post.public() {
		return false
	}

	if post.AuthorFollowers != "" && slices.Contains(post.To, post.AuthorFollowers) {
		return announce.public()
	}

	return !subset(announce.To, post.To) || !subset(announce.Cc, post.Cc)
}

func subset(a, b []string) bool {
	for _, s := range a {
		if !slices.Contains(b, s) {
			return false
		}
	}
	return true
}
