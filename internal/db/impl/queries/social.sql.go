package queries

import (
	"context"
	"database/sql"
)

const insertOutboxObject = `-- name: InsertOutboxObject :exec
INSERT INTO outbox_objects (id, actor_id, object_id, to_json, cc_json, published)
VALUES (?, ?, ?, ?, ?, ?)
`

type InsertOutboxObjectParams struct {
	ID        string
	ActorID   string
	ObjectID  string
	ToJson    string
	CcJson    string
	Published int64
}

func (q *Queries) InsertOutboxObject(ctx context.Context, arg InsertOutboxObjectParams) error {
	_, err := q.db.ExecContext(ctx, insertOutboxObject,
		arg.ID,
		arg.ActorID,
		arg.ObjectID,
		arg.ToJson,
		arg.CcJson,
		arg.Published,
	)
	return err
}

const listOutboxObjects = `-- name: ListOutboxObjects :many
SELECT id, actor_id, object_id, to_json, cc_json, published FROM outbox_objects
WHERE actor_id = ?
ORDER BY published DESC, id DESC
LIMIT ?
`

type ListOutboxObjectsParams struct {
	ActorID string
	Limit   int64
}

func (q *Queries) ListOutboxObjects(ctx context.Context, arg ListOutboxObjectsParams) ([]OutboxObject, error) {
	rows, err := q.db.QueryContext(ctx, listOutboxObjects, arg.ActorID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OutboxObject
	for rows.Next() {
		var i OutboxObject
		if err := rows.Scan(
			&i.ID,
			&i.ActorID,
			&i.ObjectID,
			&i.ToJson,
			&i.CcJson,
			&i.Published,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteOutboxObject = `-- name: DeleteOutboxObject :exec
DELETE FROM outbox_objects WHERE id = ?
`

func (q *Queries) DeleteOutboxObject(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, deleteOutboxObject, id)
	return err
}

const insertReblog = `-- name: InsertReblog :execresult
INSERT OR IGNORE INTO actor_reblogs (id, mastodon_id, actor_id, object_id, outbox_object_id, created)
VALUES (?, ?, ?, ?, ?, ?)
`

type InsertReblogParams struct {
	ID             string
	MastodonID     string
	ActorID        string
	ObjectID       string
	OutboxObjectID string
	Created        int64
}

func (q *Queries) InsertReblog(ctx context.Context, arg InsertReblogParams) (sql.Result, error) {
	return q.db.ExecContext(ctx, insertReblog,
		arg.ID,
		arg.MastodonID,
		arg.ActorID,
		arg.ObjectID,
		arg.OutboxObjectID,
		arg.Created,
	)
}

const getReblogOutboxObject = `-- name: GetReblogOutboxObject :one
SELECT outbox_object_id FROM actor_reblogs
WHERE id = ? AND actor_id = ?
`

type GetReblogOutboxObjectParams struct {
	ID      string
	ActorID string
}

func (q *Queries) GetReblogOutboxObject(ctx context.Context, arg GetReblogOutboxObjectParams) (string, error) {
	row := q.db.QueryRowContext(ctx, getReblogOutboxObject, arg.ID, arg.ActorID)
	var outbox_object_id string
	err := row.Scan(&outbox_object_id)
	return outbox_object_id, err
}

const deleteReblog = `-- name: DeleteReblog :exec
DELETE FROM actor_reblogs WHERE id = ?
`

func (q *Queries) DeleteReblog(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, deleteReblog, id)
	return err
}

const listReblogsByObject = `-- name: ListReblogsByObject :many
SELECT id, mastodon_id, actor_id, object_id, outbox_object_id, created FROM actor_reblogs
WHERE object_id = ?
ORDER BY created, id
`

func (q *Queries) ListReblogsByObject(ctx context.Context, objectID string) ([]ActorReblog, error) {
	rows, err := q.db.QueryContext(ctx, listReblogsByObject, objectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ActorReblog
	for rows.Next() {
		var i ActorReblog
		if err := rows.Scan(
			&i.ID,
			&i.MastodonID,
			&i.ActorID,
			&i.ObjectID,
			&i.OutboxObjectID,
			&i.Created,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertFavourite = `-- name: InsertFavourite :execresult
INSERT OR IGNORE INTO actor_favourites (id, actor_id, object_id, activity_id, created)
VALUES (?, ?, ?, ?, ?)
`

type InsertFavouriteParams struct {
	ID         string
	ActorID    string
	ObjectID   string
	ActivityID sql.NullString
	Created    int64
}

func (q *Queries) InsertFavourite(ctx context.Context, arg InsertFavouriteParams) (sql.Result, error) {
	return q.db.ExecContext(ctx, insertFavourite,
		arg.ID,
		arg.ActorID,
		arg.ObjectID,
		arg.ActivityID,
		arg.Created,
	)
}

const deleteFavourite = `-- name: DeleteFavourite :exec
DELETE FROM actor_favourites WHERE actor_id = ? AND object_id = ?
`

type DeleteFavouriteParams struct {
	ActorID  string
	ObjectID string
}

func (q *Queries) DeleteFavourite(ctx context.Context, arg DeleteFavouriteParams) error {
	_, err := q.db.ExecContext(ctx, deleteFavourite, arg.ActorID, arg.ObjectID)
	return err
}

const listFavouritesByObject = `-- name: ListFavouritesByObject :many
SELECT id, actor_id, object_id, activity_id, created FROM actor_favourites
WHERE object_id = ?
ORDER BY created, id
`

func (q *Queries) ListFavouritesByObject(ctx context.Context, objectID string) ([]ActorFavourite, error) {
	rows, err := q.db.QueryContext(ctx, listFavouritesByObject, objectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ActorFavourite
	for rows.Next() {
		var i ActorFavourite
		if err := rows.Scan(
			&i.ID,
			&i.ActorID,
			&i.ObjectID,
			&i.ActivityID,
			&i.Created,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertNotification = `-- name: InsertNotification :exec
INSERT INTO actor_notifications (id, type, actor_id, from_actor_id, object_id, created)
VALUES (?, ?, ?, ?, ?, ?)
`

type InsertNotificationParams struct {
	ID          string
	Type        string
	ActorID     string
	FromActorID string
	ObjectID    sql.NullString
	Created     int64
}

func (q *Queries) InsertNotification(ctx context.Context, arg InsertNotificationParams) error {
	_, err := q.db.ExecContext(ctx, insertNotification,
		arg.ID,
		arg.Type,
		arg.ActorID,
		arg.FromActorID,
		arg.ObjectID,
		arg.Created,
	)
	return err
}

const listNotifications = `-- name: ListNotifications :many
SELECT id, type, actor_id, from_actor_id, object_id, created FROM actor_notifications
WHERE actor_id = ?
ORDER BY created DESC, id DESC
LIMIT ?
`

type ListNotificationsParams struct {
	ActorID string
	Limit   int64
}

func (q *Queries) ListNotifications(ctx context.Context, arg ListNotificationsParams) ([]ActorNotification, error) {
	rows, err := q.db.QueryContext(ctx, listNotifications, arg.ActorID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ActorNotification
	for rows.Next() {
		var i ActorNotification
		if err := rows.Scan(
			&i.ID,
			&i.Type,
			&i.ActorID,
			&i.FromActorID,
			&i.ObjectID,
			&i.Created,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertReply = `-- name: InsertReply :exec
INSERT INTO actor_replies (id, actor_id, object_id, in_reply_to_object_id, created)
VALUES (?, ?, ?, ?, ?)
`

type InsertReplyParams struct {
	ID                string
	ActorID           string
	ObjectID          string
	InReplyToObjectID string
	Created           int64
}

func (q *Queries) InsertReply(ctx context.Context, arg InsertReplyParams) error {
	_, err := q.db.ExecContext(ctx, insertReply,
		arg.ID,
		arg.ActorID,
		arg.ObjectID,
		arg.InReplyToObjectID,
		arg.Created,
	)
	return err
}

const listReplies = `-- name: ListReplies :many
SELECT id, actor_id, object_id, in_reply_to_object_id, created FROM actor_replies
WHERE in_reply_to_object_id = ?
ORDER BY created, id
`

func (q *Queries) ListReplies(ctx context.Context, inReplyToObjectID string) ([]ActorReply, error) {
	rows, err := q.db.QueryContext(ctx, listReplies, inReplyToObjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ActorReply
	for rows.Next() {
		var i ActorReply
		if err := rows.Scan(
			&i.ID,
			&i.ActorID,
			&i.ObjectID,
			&i.InReplyToObjectID,
			&i.Created,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const putIdempotencyKey = `-- name: PutIdempotencyKey :exec
INSERT INTO idempotency_keys (key, object_id, expires_at) VALUES (?, ?, ?)
ON CONFLICT (key) DO UPDATE SET object_id = excluded.object_id, expires_at = excluded.expires_at
`

type PutIdempotencyKeyParams struct {
	Key       string
	ObjectID  string
	ExpiresAt int64
}

func (q *Queries) PutIdempotencyKey(ctx context.Context, arg PutIdempotencyKeyParams) error {
	_, err := q.db.ExecContext(ctx, putIdempotencyKey, arg.Key, arg.ObjectID, arg.ExpiresAt)
	return err
}

const getIdempotencyKey = `-- name: GetIdempotencyKey :one
SELECT object_id FROM idempotency_keys
WHERE key = ? AND expires_at > ?
`

type GetIdempotencyKeyParams struct {
	Key string
	Now int64
}

func (q *Queries) GetIdempotencyKey(ctx context.Context, arg GetIdempotencyKeyParams) (string, error) {
	row := q.db.QueryRowContext(ctx, getIdempotencyKey, arg.Key, arg.Now)
	var object_id string
	err := row.Scan(&object_id)
	return object_id, err
}
