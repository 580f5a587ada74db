package domain

import (
	"net/url"
	"time"
)

const (
	NoteType = "Note"
)

// ObjectMeta holds the bookkeeping attached to a stored object that is not part of its ActivityStreams
// representation.
type ObjectMeta struct {
	MastodonID string
	// OriginalObjectID is the object's IRI on its origin server; nil for objects authored locally.
	OriginalObjectID *url.URL
	// OriginalActorID is the IRI of the actor owning the object.
	OriginalActorID *url.URL
	Local           bool
}

// Object is any ActivityStreams object stored locally, chiefly notes.
type Object struct {
	// ID is the object's local IRI.
	ID         *url.URL
	Type       string
	Properties map[string]any
	Published  time.Time
	Updated    time.Time
	Meta       ObjectMeta
}

// To returns the object's primary recipients.
func (o Object) To() []string {
	return StringList(o.Properties["to"])
}

// Cc returns the object's secondary recipients.
func (o Object) Cc() []string {
	return StringList(o.Properties["cc"])
}

func (o Object) Content() string {
	s, _ := o.Properties["content"].(string)
	return s
}

// InReplyTo returns the IRI the object replies to, if any.
func (o Object) InReplyTo() *url.URL {
	s, ok := o.Properties["inReplyTo"].(string)
	if !ok || s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil
	}
	return u
}

// OriginIRI returns the IRI other servers know the object by.
func (o Object) OriginIRI() *url.URL {
	if o.Meta.OriginalObjectID != nil {
		return o.Meta.OriginalObjectID
	}
	return o.ID
}

type Revision struct {
	ID      int64
	Patch   string
	Created time.Time
}

// StringList normalizes a JSON-LD value that may be a single string, a list of strings or a list of
// objects carrying an id into a list of strings.
func StringList(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return []string{t}
	case []string:
		return t
	case []any:
		list := make([]string, 0, len(t))
		for _, e := range t {
			switch item := e.(type) {
			case string:
				list = append(list, item)
			case map[string]any:
				if id, ok := item["id"].(string); ok {
					list = append(list, id)
				}
			}
		}
		return list
	case map[string]any:
		if id, ok := t["id"].(string); ok {
			return []string{id}
		}
	}
	return nil
}
