package fedb

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/gofederate/internal/db"
	"github.com/sidereusnuntius/gofederate/internal/diff"
	"github.com/sidereusnuntius/gofederate/internal/domain"
	"github.com/sidereusnuntius/gofederate/internal/federation"
)

// CacheObject stores an object received from original, owned by owner. If an object with the same original
// IRI is already stored it is returned untouched with created = false.
func (fd *FedDB) CacheObject(ctx context.Context, props map[string]any, owner, original *url.URL, local bool) (obj domain.Object, created bool, err error) {
	if owner == nil {
		err = fmt.Errorf("%w: attributedTo", federation.ErrMissingProperty)
		return
	}
	props = fd.clean(props)

	if original != nil {
		unlock := fd.Lock(original)
		defer unlock()

		obj, err = fd.DB.GetObjectByOriginalID(ctx, original)
		if err == nil {
			return obj, false, nil
		}
		if !errors.Is(err, db.ErrNotFound) {
			return
		}
	}

	mastodonID, err := fd.ids.Next(ctx, objectsCounter)
	if err != nil {
		return
	}

	obj = domain.Object{
		ID:         fd.ObjectIRI(mastodonID),
		Type:       objectType(props),
		Properties: props,
		Published:  timeProp(props, "published", fd.clock.Now()),
		Meta: domain.ObjectMeta{
			MastodonID:       mastodonID,
			OriginalObjectID: original,
			OriginalActorID:  owner,
			Local:            local,
		},
	}

	// A concurrent insert from another process may still win; the storage layer then returns its row.
	obj, created, err = fd.DB.InsertObject(ctx, obj)
	if err != nil {
		return
	}

	if created && !local && original != nil {
		if err = fd.DB.AddPeer(ctx, original.Host); err != nil {
			return
		}
	}
	return
}

// CreateObject stores an object authored by the local actor author. Local objects are their own origin and
// are never deduplicated.
func (fd *FedDB) CreateObject(ctx context.Context, author domain.Actor, props map[string]any) (domain.Object, error) {
	mastodonID, err := fd.ids.Next(ctx, objectsCounter)
	if err != nil {
		return domain.Object{}, err
	}
	now := fd.clock.Now()

	props = fd.clean(props)
	id := fd.ObjectIRI(mastodonID)
	props["id"] = id.String()
	props["attributedTo"] = author.ID.String()
	if _, ok := props["type"]; !ok {
		props["type"] = domain.NoteType
	}
	props["published"] = now.UTC().Format(time.RFC3339)

	obj, _, err := fd.DB.InsertObject(ctx, domain.Object{
		ID:         id,
		Type:       objectType(props),
		Properties: props,
		Published:  now,
		Meta: domain.ObjectMeta{
			MastodonID:      mastodonID,
			OriginalActorID: author.ID,
			Local:           true,
		},
	})
	return obj, err
}

// Get returns the stored object known by iri, which may be either its local or its original IRI.
func (fd *FedDB) Get(ctx context.Context, iri *url.URL) (domain.Object, error) {
	if fd.IsLocal(iri) {
		return fd.DB.GetObject(ctx, iri)
	}
	return fd.DB.GetObjectByOriginalID(ctx, iri)
}

// Resolve returns the object known by iri, fetching and caching it when it is remote and not stored yet.
func (fd *FedDB) Resolve(ctx context.Context, iri *url.URL) (domain.Object, error) {
	obj, err := fd.Get(ctx, iri)
	if err == nil || !errors.Is(err, db.ErrNotFound) || fd.IsLocal(iri) {
		return obj, err
	}

	if fd.fetcher == nil {
		return domain.Object{}, fmt.Errorf("%w: %s", federation.ErrNotFoundIRI, iri)
	}
	props, err := fd.fetcher.Get(ctx, iri)
	if err != nil {
		log.Error().Err(err).Str("iri", iri.String()).Msg("failed to fetch object")
		return domain.Object{}, err
	}
	return fd.CacheFetched(ctx, iri, props)
}

// CacheFetched stores a document dereferenced from iri.
func (fd *FedDB) CacheFetched(ctx context.Context, iri *url.URL, props map[string]any) (domain.Object, error) {
	if id, ok := props["id"].(string); !ok || id != iri.String() {
		return domain.Object{}, fmt.Errorf("%w: id of %s", federation.ErrUnprocessablePropValue, iri)
	}

	owner := attributedTo(props)
	if owner == nil || owner.Host != iri.Host {
		return domain.Object{}, fmt.Errorf("%w: attributedTo of %s", federation.ErrUnprocessablePropValue, iri)
	}
	obj, _, err := fd.CacheObject(ctx, props, owner, iri, false)
	return obj, err
}

// UpdateObject overwrites the properties of obj. The caller must have checked that the updating actor owns
// it.
func (fd *FedDB) UpdateObject(ctx context.Context, obj domain.Object, props map[string]any) error {
	props = fd.clean(props)
	return fd.DB.UpdateObject(ctx, obj.ID, props, timeProp(props, "updated", fd.clock.Now()))
}

// DeleteObject removes obj and everything that depends on it. The caller must have checked ownership.
func (fd *FedDB) DeleteObject(ctx context.Context, obj domain.Object) error {
	unlock := fd.Lock(obj.OriginIRI())
	defer unlock()
	return fd.DB.DeleteObject(ctx, obj.ID)
}

// History returns the previous contents of the object, most recent first.
func (fd *FedDB) History(ctx context.Context, id *url.URL) ([]string, error) {
	obj, err := fd.DB.GetObject(ctx, id)
	if err != nil {
		return nil, err
	}

	revisions, err := fd.DB.GetObjectRevisions(ctx, id)
	if err != nil {
		return nil, err
	}

	history := make([]string, 0, len(revisions))
	content := obj.Content()
	for _, r := range revisions {
		if content, err = diff.Apply(content, r.Patch); err != nil {
			return history, fmt.Errorf("revision %d of %s: %w", r.ID, id, err)
		}
		history = append(history, content)
	}
	return history, nil
}

// clean returns a copy of props with the free text fields sanitized.
func (fd *FedDB) clean(props map[string]any) map[string]any {
	out := maps.Clone(props)
	if out == nil {
		out = map[string]any{}
	}
	for _, key := range []string{"content", "summary"} {
		if s, ok := out[key].(string); ok {
			out[key] = fd.sanitizer.HTML(s)
		}
	}
	if s, ok := out["name"].(string); ok {
		out["name"] = fd.sanitizer.Text(s)
	}
	return out
}

func objectType(props map[string]any) string {
	if t, ok := props["type"].(string); ok && t != "" {
		return t
	}
	return domain.NoteType
}

func timeProp(props map[string]any, key string, fallback time.Time) time.Time {
	s, ok := props[key].(string)
	if !ok {
		return fallback
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fallback
	}
	return t
}

func attributedTo(props map[string]any) *url.URL {
	list := domain.StringList(props["attributedTo"])
	if len(list) == 0 {
		return nil
	}
	u, err := url.Parse(list[0])
	if err != nil || !u.IsAbs() {
		return nil
	}
	return u
}
