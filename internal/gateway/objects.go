package gateway

import (
	"context"
	"errors"
	"net/url"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/gofederate/internal/activity"
	"github.com/sidereusnuntius/gofederate/internal/db"
	"github.com/sidereusnuntius/gofederate/internal/domain"
	"github.com/sidereusnuntius/gofederate/internal/federation"
)

func (d *Dispatcher) handleCreate(ctx context.Context, c activity.Create) error {
	if c.Object.ID == nil {
		return federation.Invalid("%w: object.id", federation.ErrMissingProperty)
	}
	// Only the object's own server may introduce it; the first cached copy of an IRI is kept.
	if !strings.EqualFold(c.Object.ID.Host, c.Actor.Host) {
		return federation.Precondition("object %s is not hosted on the server of %s", c.Object.ID, c.Actor)
	}
	if owner := c.Object.AttributedTo(); owner != nil && owner.String() != c.Actor.String() {
		return federation.Precondition("actor.id mismatch when creating object")
	}

	sender, err := d.cache.GetActor(ctx, c.Actor)
	if err != nil {
		return err
	}

	obj, created, err := d.cache.CacheObject(ctx, c.Object.Properties, sender.ID, c.Object.ID, sender.Local)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	if parent := obj.InReplyTo(); parent != nil {
		reply := domain.Reply{
			Actor:     sender.ID,
			Object:    obj.ID,
			InReplyTo: d.localIRI(ctx, parent),
		}
		if err = d.db.AddReply(ctx, reply); err != nil {
			return err
		}
	}

	for _, mentioned := range d.mentions(ctx, obj, sender) {
		if err = d.notify(ctx, domain.NotificationMention, mentioned, sender.ID, obj.ID); err != nil {
			return err
		}
	}

	if sender.Local {
		return nil
	}

	outboxID, err := d.cache.NextID(ctx, outboxCounter)
	if err != nil {
		return err
	}
	return d.db.AddOutboxEntry(ctx, domain.OutboxEntry{
		ID:        outboxID,
		Actor:     sender.ID,
		Object:    obj.ID,
		To:        obj.To(),
		Cc:        obj.Cc(),
		Published: obj.Published,
	})
}

// localIRI returns the IRI iri is stored under, or iri itself if it is not stored.
func (d *Dispatcher) localIRI(ctx context.Context, iri *url.URL) *url.URL {
	obj, err := d.cache.Get(ctx, iri)
	if err != nil {
		return iri
	}
	return obj.ID
}

// mentions returns the local actors addressed by obj, either as recipients or through Mention tags.
func (d *Dispatcher) mentions(ctx context.Context, obj domain.Object, sender domain.Actor) []*url.URL {
	candidates := slices.Concat(obj.To(), obj.Cc())
	if tags, ok := obj.Properties["tag"].([]any); ok {
		for _, t := range tags {
			tag, ok := t.(map[string]any)
			if !ok || tag["type"] != "Mention" {
				continue
			}
			if href, ok := tag["href"].(string); ok {
				candidates = append(candidates, href)
			}
		}
	}

	seen := make(map[string]bool)
	var local []*url.URL
	for _, c := range candidates {
		if seen[c] || c == domain.PublicGroup || c == sender.FollowersURI() || c == sender.ID.String() {
			continue
		}
		seen[c] = true

		iri := parseIRI(c)
		if !d.cache.IsLocal(iri) {
			continue
		}
		actor, err := d.db.GetActor(ctx, iri)
		if err != nil {
			if !errors.Is(err, db.ErrNotFound) {
				log.Error().Err(err).Str("iri", c).Msg("failed to look up mentioned actor")
			}
			continue
		}
		local = append(local, actor.ID)
	}
	return local
}

func (d *Dispatcher) handleUpdate(ctx context.Context, u activity.Update) error {
	if u.Object.ID == nil {
		return federation.Invalid("%w: object.id", federation.ErrMissingProperty)
	}

	// Profile updates carry the actor itself.
	if u.Object.ID.String() == u.Actor.String() {
		_, err := d.cache.RefreshActor(ctx, u.Actor)
		return err
	}

	obj, err := d.cache.Get(ctx, u.Object.ID)
	if errors.Is(err, db.ErrNotFound) {
		return federation.Precondition("object %s does not exist", u.Object.ID)
	}
	if err != nil {
		return err
	}

	if obj.Meta.OriginalActorID.String() != u.Actor.String() {
		return federation.Precondition("actor.id mismatch when updating object")
	}
	return d.cache.UpdateObject(ctx, obj, u.Object.Properties)
}

func (d *Dispatcher) handleDelete(ctx context.Context, del activity.Delete) error {
	target := del.Object.IRI
	if target.String() == del.Actor.String() {
		log.Debug().Str("actor", del.Actor.String()).Msg("ignoring actor deletion")
		return nil
	}
	if d.cache.IsLocal(target) {
		log.Debug().Str("object", target.String()).Msg("ignoring federated delete of a local object")
		return nil
	}

	obj, err := d.cache.Get(ctx, target)
	if errors.Is(err, db.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if obj.Meta.Local || obj.Meta.OriginalActorID.String() != del.Actor.String() {
		log.Debug().Str("object", target.String()).Str("actor", del.Actor.String()).Msg("ignoring delete by non-owner")
		return nil
	}
	return d.cache.DeleteObject(ctx, obj)
}
