package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/gofederate/internal/activity"
	"github.com/sidereusnuntius/gofederate/internal/db"
	"github.com/sidereusnuntius/gofederate/internal/domain"
	"github.com/sidereusnuntius/gofederate/internal/federation"
	"github.com/sidereusnuntius/gofederate/internal/visibility"
)

func (d *Dispatcher) handleAnnounce(ctx context.Context, a activity.Announce) error {
	actor, err := d.cache.GetActor(ctx, a.Actor)
	if err != nil {
		return err
	}

	obj, err := d.cache.Resolve(ctx, a.Object.IRI)
	if err != nil {
		return err
	}
	author, err := d.cache.GetActor(ctx, obj.Meta.OriginalActorID)
	if err != nil {
		return err
	}

	post := visibility.Post{
		Author:          author.ID.String(),
		AuthorFollowers: author.FollowersURI(),
		Audience:        visibility.Audience{To: obj.To(), Cc: obj.Cc()},
	}
	if visibility.ReblogNotAllowed(actor.ID.String(), post, visibility.Audience{To: a.To, Cc: a.Cc}) {
		log.Debug().Str("announce", a.ID.String()).Str("object", obj.ID.String()).Msg("reblog not allowed")
		return nil
	}

	reblogID, err := d.cache.NextID(ctx, reblogsCounter)
	if err != nil {
		return err
	}
	outboxID, err := d.cache.NextID(ctx, outboxCounter)
	if err != nil {
		return err
	}

	now := d.clock.Now()
	created, err := d.db.AddReblog(ctx,
		domain.Reblog{
			ID:         a.ID,
			MastodonID: reblogID,
			Actor:      actor.ID,
			Object:     obj.ID,
			Created:    now,
		},
		domain.OutboxEntry{
			ID:        outboxID,
			Actor:     actor.ID,
			Object:    obj.ID,
			To:        a.To,
			Cc:        a.Cc,
			Published: published(a.Raw, now),
		})
	if err != nil || !created {
		return err
	}

	if author.Local && author.ID.String() != actor.ID.String() {
		return d.notify(ctx, domain.NotificationReblog, author.ID, actor.ID, obj.ID)
	}
	return nil
}

func (d *Dispatcher) handleLike(ctx context.Context, l activity.Like) error {
	obj, err := d.cache.Get(ctx, l.Object)
	if errors.Is(err, db.ErrNotFound) {
		log.Debug().Str("object", l.Object.String()).Msg("ignoring like of unknown object")
		return nil
	}
	if err != nil {
		return err
	}

	created, err := d.db.AddLike(ctx, domain.Like{
		Actor:    l.Actor,
		Object:   obj.ID,
		Activity: l.ID,
		Created:  d.clock.Now(),
	})
	if err != nil || !created {
		return err
	}

	if obj.Meta.Local {
		return d.notify(ctx, domain.NotificationFavourite, obj.Meta.OriginalActorID, l.Actor, obj.ID)
	}
	return nil
}

func (d *Dispatcher) handleUndo(ctx context.Context, u activity.Undo) error {
	inner := u.Object.Head()
	if inner.Actor.String() != u.Actor.String() {
		return federation.Precondition("actor.id mismatch when undoing activity")
	}

	switch undone := u.Object.(type) {
	case activity.Follow:
		return d.db.RemoveFollowing(ctx, u.Actor, undone.Object)
	case activity.Like:
		obj, err := d.cache.Get(ctx, undone.Object)
		if errors.Is(err, db.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return d.db.RemoveLike(ctx, u.Actor, obj.ID)
	case activity.Announce:
		return d.db.RemoveReblog(ctx, u.Actor, undone.ID)
	default:
		log.Debug().Str("type", string(inner.Kind)).Msg("ignoring undo of unsupported activity")
		return nil
	}
}

func published(m map[string]any, fallback time.Time) time.Time {
	s, ok := m["published"].(string)
	if !ok {
		return fallback
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fallback
	}
	return t
}
