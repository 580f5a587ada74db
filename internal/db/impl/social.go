package impl

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/sidereusnuntius/gofederate/internal/db/impl/queries"
	"github.com/sidereusnuntius/gofederate/internal/domain"
)

// errDuplicate rolls back a transaction whose insert-or-ignore found an existing row.
var errDuplicate = errors.New("duplicate row")

func outboxParams(entry domain.OutboxEntry) (queries.InsertOutboxObjectParams, error) {
	to, err := json.Marshal(nonNil(entry.To))
	if err != nil {
		return queries.InsertOutboxObjectParams{}, err
	}
	cc, err := json.Marshal(nonNil(entry.Cc))
	if err != nil {
		return queries.InsertOutboxObjectParams{}, err
	}
	return queries.InsertOutboxObjectParams{
		ID:        entry.ID,
		ActorID:   entry.Actor.String(),
		ObjectID:  entry.Object.String(),
		ToJson:    string(to),
		CcJson:    string(cc),
		Published: entry.Published.UnixMilli(),
	}, nil
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func (d *dbImpl) AddOutboxEntry(ctx context.Context, entry domain.OutboxEntry) error {
	params, err := outboxParams(entry)
	if err != nil {
		return fmt.Errorf("encoding recipients of outbox entry %s: %w", entry.ID, err)
	}
	if err = d.queries.InsertOutboxObject(ctx, params); err != nil {
		return fmt.Errorf("%w: adding %s to the outbox of %s", d.HandleError(err), entry.Object, entry.Actor)
	}
	return nil
}

func (d *dbImpl) GetOutbox(ctx context.Context, actor *url.URL, n int) ([]domain.OutboxEntry, error) {
	rows, err := d.queries.ListOutboxObjects(ctx, queries.ListOutboxObjectsParams{
		ActorID: actor.String(),
		Limit:   limit(n),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: outbox of %s", d.HandleError(err), actor)
	}

	entries := make([]domain.OutboxEntry, 0, len(rows))
	for _, r := range rows {
		entry, err := outboxEntryFromRow(r)
		if err != nil {
			return nil, fmt.Errorf("decoding outbox entry %s: %w", r.ID, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (d *dbImpl) AddReblog(ctx context.Context, reblog domain.Reblog, entry domain.OutboxEntry) (bool, error) {
	params, err := outboxParams(entry)
	if err != nil {
		return false, fmt.Errorf("encoding recipients of outbox entry %s: %w", entry.ID, err)
	}

	err = d.WithTx(ctx, func(tx *queries.Queries) error {
		if err := tx.InsertOutboxObject(ctx, params); err != nil {
			return err
		}
		result, err := tx.InsertReblog(ctx, queries.InsertReblogParams{
			ID:             reblog.ID.String(),
			MastodonID:     reblog.MastodonID,
			ActorID:        reblog.Actor.String(),
			ObjectID:       reblog.Object.String(),
			OutboxObjectID: entry.ID,
			Created:        reblog.Created.UnixMilli(),
		})
		if err != nil {
			return err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return errDuplicate
		}
		return nil
	})
	if errors.Is(err, errDuplicate) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: reblog %s", d.HandleError(err), reblog.ID)
	}
	return true, nil
}

func (d *dbImpl) RemoveReblog(ctx context.Context, actor, activity *url.URL) error {
	err := d.WithTx(ctx, func(tx *queries.Queries) error {
		outboxID, err := tx.GetReblogOutboxObject(ctx, queries.GetReblogOutboxObjectParams{
			ID:      activity.String(),
			ActorID: actor.String(),
		})
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		if err = tx.DeleteOutboxObject(ctx, outboxID); err != nil {
			return err
		}
		return tx.DeleteReblog(ctx, activity.String())
	})
	if err != nil {
		return fmt.Errorf("%w: removing reblog %s", d.HandleError(err), activity)
	}
	return nil
}

func (d *dbImpl) GetReblogs(ctx context.Context, object *url.URL) ([]domain.Reblog, error) {
	rows, err := d.queries.ListReblogsByObject(ctx, object.String())
	if err != nil {
		return nil, fmt.Errorf("%w: reblogs of %s", d.HandleError(err), object)
	}
	reblogs := make([]domain.Reblog, 0, len(rows))
	for _, r := range rows {
		reblogs = append(reblogs, domain.Reblog{
			ID:          parseURL(r.ID),
			MastodonID:  r.MastodonID,
			Actor:       parseURL(r.ActorID),
			Object:      parseURL(r.ObjectID),
			OutboxEntry: r.OutboxObjectID,
			Created:     fromMilli(r.Created),
		})
	}
	return reblogs, nil
}

func (d *dbImpl) AddLike(ctx context.Context, like domain.Like) (bool, error) {
	id := like.ID
	if id == "" {
		id = uuid.NewString()
	}
	created := like.Created
	if created.IsZero() {
		created = time.Now()
	}

	result, err := d.queries.InsertFavourite(ctx, queries.InsertFavouriteParams{
		ID:         id,
		ActorID:    like.Actor.String(),
		ObjectID:   like.Object.String(),
		ActivityID: nullURL(like.Activity),
		Created:    created.UnixMilli(),
	})
	if err != nil {
		return false, fmt.Errorf("%w: like of %s by %s", d.HandleError(err), like.Object, like.Actor)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, d.HandleError(err)
	}
	return n > 0, nil
}

func (d *dbImpl) RemoveLike(ctx context.Context, actor, object *url.URL) error {
	err := d.queries.DeleteFavourite(ctx, queries.DeleteFavouriteParams{
		ActorID:  actor.String(),
		ObjectID: object.String(),
	})
	if err != nil {
		return fmt.Errorf("%w: removing like of %s by %s", d.HandleError(err), object, actor)
	}
	return nil
}

func (d *dbImpl) GetLikes(ctx context.Context, object *url.URL) ([]domain.Like, error) {
	rows, err := d.queries.ListFavouritesByObject(ctx, object.String())
	if err != nil {
		return nil, fmt.Errorf("%w: likes of %s", d.HandleError(err), object)
	}
	likes := make([]domain.Like, 0, len(rows))
	for _, r := range rows {
		likes = append(likes, domain.Like{
			ID:       r.ID,
			Actor:    parseURL(r.ActorID),
			Object:   parseURL(r.ObjectID),
			Activity: parseNullURL(r.ActivityID),
			Created:  fromMilli(r.Created),
		})
	}
	return likes, nil
}

func (d *dbImpl) AddNotification(ctx context.Context, n domain.Notification) error {
	created := n.Created
	if created.IsZero() {
		created = time.Now()
	}
	err := d.queries.InsertNotification(ctx, queries.InsertNotificationParams{
		ID:          n.ID,
		Type:        string(n.Type),
		ActorID:     n.Actor.String(),
		FromActorID: n.From.String(),
		ObjectID:    nullURL(n.Object),
		Created:     created.UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("%w: %s notification for %s", d.HandleError(err), n.Type, n.Actor)
	}
	return nil
}

func (d *dbImpl) GetNotifications(ctx context.Context, actor *url.URL, n int) ([]domain.Notification, error) {
	rows, err := d.queries.ListNotifications(ctx, queries.ListNotificationsParams{
		ActorID: actor.String(),
		Limit:   limit(n),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: notifications of %s", d.HandleError(err), actor)
	}
	notifications := make([]domain.Notification, 0, len(rows))
	for _, r := range rows {
		notifications = append(notifications, domain.Notification{
			ID:      r.ID,
			Type:    domain.NotificationType(r.Type),
			Actor:   parseURL(r.ActorID),
			From:    parseURL(r.FromActorID),
			Object:  parseNullURL(r.ObjectID),
			Created: fromMilli(r.Created),
		})
	}
	return notifications, nil
}

func (d *dbImpl) AddReply(ctx context.Context, reply domain.Reply) error {
	id := reply.ID
	if id == "" {
		id = uuid.NewString()
	}
	err := d.queries.InsertReply(ctx, queries.InsertReplyParams{
		ID:                id,
		ActorID:           reply.Actor.String(),
		ObjectID:          reply.Object.String(),
		InReplyToObjectID: reply.InReplyTo.String(),
		Created:           time.Now().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("%w: reply %s to %s", d.HandleError(err), reply.Object, reply.InReplyTo)
	}
	return nil
}

func (d *dbImpl) GetReplies(ctx context.Context, object *url.URL) ([]domain.Reply, error) {
	rows, err := d.queries.ListReplies(ctx, object.String())
	if err != nil {
		return nil, fmt.Errorf("%w: replies to %s", d.HandleError(err), object)
	}
	replies := make([]domain.Reply, 0, len(rows))
	for _, r := range rows {
		replies = append(replies, domain.Reply{
			ID:        r.ID,
			Actor:     parseURL(r.ActorID),
			Object:    parseURL(r.ObjectID),
			InReplyTo: parseURL(r.InReplyToObjectID),
		})
	}
	return replies, nil
}

func (d *dbImpl) PutIdempotencyKey(ctx context.Context, key string, object *url.URL, expires time.Time) error {
	err := d.queries.PutIdempotencyKey(ctx, queries.PutIdempotencyKeyParams{
		Key:       key,
		ObjectID:  object.String(),
		ExpiresAt: expires.UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("%w: idempotency key for %s", d.HandleError(err), object)
	}
	return nil
}

func (d *dbImpl) GetIdempotencyKey(ctx context.Context, key string, now time.Time) (*url.URL, error) {
	id, err := d.queries.GetIdempotencyKey(ctx, queries.GetIdempotencyKeyParams{
		Key: key,
		Now: now.UnixMilli(),
	})
	if err != nil {
		return nil, d.HandleError(err)
	}
	return parseURL(id), nil
}
