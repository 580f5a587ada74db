package domain

import (
	"net/url"
	"slices"
	"time"
)

const (
	PersonType      = "Person"
	ServiceType     = "Service"
	ApplicationType = "Application"
)

// Actor is a federation identity, either registered on this instance or cached from a remote host.
type Actor struct {
	// ID is the actor's identity URI. It never changes once the actor is stored.
	ID *url.URL
	// MastodonID is the sortable identifier allocated locally when the actor was first stored.
	MastodonID string
	Type       string
	Username   string
	Domain     string
	Name       string
	Summary    string
	Inbox      *url.URL
	Outbox     *url.URL
	Followers  *url.URL
	Following  *url.URL
	// AlsoKnownAs lists the identities this actor claims as aliases. A Move onto this actor is only honored
	// when the moving actor is among them.
	AlsoKnownAs []string
	PublicKey   string
	Local       bool
	Created     time.Time
}

// Acct returns the actor's user@host handle.
func (a Actor) Acct() string {
	return a.Username + "@" + a.Domain
}

// FollowersURI returns the followers collection URI, or an empty string if the actor has none.
func (a Actor) FollowersURI() string {
	if a.Followers == nil {
		return ""
	}
	return a.Followers.String()
}

// AliasOf reports whether the actor lists iri among its aliases.
func (a Actor) AliasOf(iri *url.URL) bool {
	return slices.Contains(a.AlsoKnownAs, iri.String())
}

// KeyID is the IRI of the actor's main public key.
func (a Actor) KeyID() string {
	u := *a.ID
	u.Fragment = "main-key"
	return u.String()
}
