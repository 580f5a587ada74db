package activity

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/sidereusnuntius/gofederate/internal/domain"
	"github.com/sidereusnuntius/gofederate/internal/federation"
)

const errNotObject = "object must be of type object"

// Parse decodes a JSON activity document.
func Parse(data []byte) (Activity, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, federation.Invalid("malformed activity: %s", err)
	}
	return FromMap(m)
}

// FromMap decodes an activity from its generic JSON representation. Unknown kinds yield an error wrapping
// federation.ErrUnsupported.
func FromMap(m map[string]any) (Activity, error) {
	kind, _ := m["type"].(string)
	if kind == "" {
		return nil, federation.Invalid("activity has no type")
	}

	env := Envelope{
		ID:    iri(m["id"]),
		Kind:  Kind(kind),
		Actor: iri(m["actor"]),
		To:    domain.StringList(m["to"]),
		Cc:    domain.StringList(m["cc"]),
		Raw:   m,
	}
	if env.ID == nil {
		return nil, federation.Invalid("%w: id", federation.ErrMissingProperty)
	}
	if env.Actor == nil {
		return nil, federation.Invalid("%w: actor", federation.ErrMissingProperty)
	}

	object := ref(m["object"])
	if object.IRI == nil && !object.IsEmbedded() {
		return nil, federation.Invalid("%w: object", federation.ErrMissingProperty)
	}

	switch env.Kind {
	case KindFollow, KindLike, KindMove, KindDelete, KindAnnounce:
		if object.IRI == nil {
			return nil, federation.Invalid("%w: object.id", federation.ErrMissingProperty)
		}
	}

	switch env.Kind {
	case KindFollow:
		return Follow{Envelope: env, Object: object.IRI}, nil
	case KindLike:
		return Like{Envelope: env, Object: object.IRI}, nil
	case KindDelete:
		return Delete{Envelope: env, Object: object}, nil
	case KindAnnounce:
		return Announce{Envelope: env, Object: object}, nil
	case KindAccept:
		if !object.IsEmbedded() {
			return nil, federation.Invalid(errNotObject)
		}
		return Accept{Envelope: env, Object: *object.Embedded}, nil
	case KindCreate:
		if !object.IsEmbedded() {
			return nil, federation.Invalid(errNotObject)
		}
		return Create{Envelope: env, Object: *object.Embedded}, nil
	case KindUpdate:
		if !object.IsEmbedded() {
			return nil, federation.Invalid(errNotObject)
		}
		return Update{Envelope: env, Object: *object.Embedded}, nil
	case KindUndo:
		if !object.IsEmbedded() {
			return nil, federation.Invalid(errNotObject)
		}
		inner, err := FromMap(object.Embedded.Properties)
		if err != nil {
			return nil, fmt.Errorf("undone activity: %w", err)
		}
		return Undo{Envelope: env, Object: inner}, nil
	case KindMove:
		target := iri(m["target"])
		if target == nil {
			return nil, federation.Invalid("%w: target", federation.ErrMissingProperty)
		}
		return Move{Envelope: env, Object: object.IRI, Target: target}, nil
	default:
		return nil, fmt.Errorf("%w: activity type %s", federation.ErrUnsupported, kind)
	}
}

func ref(v any) Ref {
	switch t := v.(type) {
	case string:
		return Ref{IRI: parse(t)}
	case map[string]any:
		id := iri(t["id"])
		typ, _ := t["type"].(string)
		return Ref{
			IRI: id,
			Embedded: &Embedded{
				ID:         id,
				Type:       typ,
				Properties: t,
			},
		}
	case []any:
		if len(t) == 1 {
			return ref(t[0])
		}
	}
	return Ref{}
}

// iri reads an IRI from a property holding either a string or an object with an id.
func iri(v any) *url.URL {
	return ref(v).IRI
}

func parse(s string) *url.URL {
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() {
		return nil
	}
	return u
}
