// Package activity decodes inbound ActivityStreams documents into one Go type per activity kind. Each kind
// carries only the fields its handler needs, and structural requirements (an embedded object, a Move target)
// are checked while decoding.
package activity

import (
	"net/url"

	"github.com/sidereusnuntius/gofederate/internal/domain"
)

type Kind string

const (
	KindFollow   Kind = "Follow"
	KindAccept   Kind = "Accept"
	KindCreate   Kind = "Create"
	KindUpdate   Kind = "Update"
	KindDelete   Kind = "Delete"
	KindAnnounce Kind = "Announce"
	KindLike     Kind = "Like"
	KindUndo     Kind = "Undo"
	KindMove     Kind = "Move"
)

// Activity is implemented by every variant in this package.
type Activity interface {
	Head() Envelope
	isActivity()
}

// Envelope holds the properties common to every activity.
type Envelope struct {
	ID    *url.URL
	Kind  Kind
	Actor *url.URL
	To    []string
	Cc    []string
	// Raw is the document the activity was decoded from.
	Raw map[string]any
}

func (e Envelope) Head() Envelope {
	return e
}

func (Envelope) isActivity() {}

// Embedded is an object carried inline by an activity.
type Embedded struct {
	ID         *url.URL
	Type       string
	Properties map[string]any
}

// AttributedTo returns the actor owning the embedded object, read from attributedTo or, for embedded
// activities, actor.
func (e Embedded) AttributedTo() *url.URL {
	if u := iri(e.Properties["attributedTo"]); u != nil {
		return u
	}
	return iri(e.Properties["actor"])
}

// ObjectIRI returns the IRI held by the embedded object's own object property.
func (e Embedded) ObjectIRI() *url.URL {
	return iri(e.Properties["object"])
}

func (e Embedded) To() []string {
	return domain.StringList(e.Properties["to"])
}

func (e Embedded) Cc() []string {
	return domain.StringList(e.Properties["cc"])
}

// Ref is an object property that may be a bare IRI or an embedded object.
type Ref struct {
	IRI      *url.URL
	Embedded *Embedded
}

func (r Ref) IsEmbedded() bool {
	return r.Embedded != nil
}

type Follow struct {
	Envelope
	// Object is the actor being followed.
	Object *url.URL
}

type Accept struct {
	Envelope
	// Object is the accepted Follow.
	Object Embedded
}

type Create struct {
	Envelope
	Object Embedded
}

type Update struct {
	Envelope
	Object Embedded
}

type Delete struct {
	Envelope
	Object Ref
}

type Announce struct {
	Envelope
	Object Ref
}

type Like struct {
	Envelope
	Object *url.URL
}

type Undo struct {
	Envelope
	// Object is the activity being undone.
	Object Activity
}

type Move struct {
	Envelope
	Object *url.URL
	// Target is the actor's new identity.
	Target *url.URL
}
