package queries

import (
	"context"
	"database/sql"
)

const getObject = `-- name: GetObject :one
SELECT id, mastodon_id, type, original_actor_id, original_object_id, local, properties, published, updated FROM objects
WHERE id = ?
`

func (q *Queries) GetObject(ctx context.Context, id string) (Object, error) {
	row := q.db.QueryRowContext(ctx, getObject, id)
	var i Object
	err := row.Scan(
		&i.ID,
		&i.MastodonID,
		&i.Type,
		&i.OriginalActorID,
		&i.OriginalObjectID,
		&i.Local,
		&i.Properties,
		&i.Published,
		&i.Updated,
	)
	return i, err
}

const getObjectByOriginalID = `-- name: GetObjectByOriginalID :one
SELECT id, mastodon_id, type, original_actor_id, original_object_id, local, properties, published, updated FROM objects
WHERE original_object_id = ?
`

func (q *Queries) GetObjectByOriginalID(ctx context.Context, originalObjectID sql.NullString) (Object, error) {
	row := q.db.QueryRowContext(ctx, getObjectByOriginalID, originalObjectID)
	var i Object
	err := row.Scan(
		&i.ID,
		&i.MastodonID,
		&i.Type,
		&i.OriginalActorID,
		&i.OriginalObjectID,
		&i.Local,
		&i.Properties,
		&i.Published,
		&i.Updated,
	)
	return i, err
}

const insertObjectReturning = `-- name: InsertObjectReturning :one
INSERT INTO objects (
	id, mastodon_id, type, original_actor_id, original_object_id, local, properties, published, updated
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (original_object_id) DO NOTHING
RETURNING id, mastodon_id, type, original_actor_id, original_object_id, local, properties, published, updated
`

type InsertObjectParams struct {
	ID               string
	MastodonID       string
	Type             string
	OriginalActorID  string
	OriginalObjectID sql.NullString
	Local            bool
	Properties       string
	Published        int64
	Updated          sql.NullInt64
}

func (q *Queries) InsertObjectReturning(ctx context.Context, arg InsertObjectParams) (Object, error) {
	row := q.db.QueryRowContext(ctx, insertObjectReturning,
		arg.ID,
		arg.MastodonID,
		arg.Type,
		arg.OriginalActorID,
		arg.OriginalObjectID,
		arg.Local,
		arg.Properties,
		arg.Published,
		arg.Updated,
	)
	var i Object
	err := row.Scan(
		&i.ID,
		&i.MastodonID,
		&i.Type,
		&i.OriginalActorID,
		&i.OriginalObjectID,
		&i.Local,
		&i.Properties,
		&i.Published,
		&i.Updated,
	)
	return i, err
}

const insertObjectOrIgnore = `-- name: InsertObjectOrIgnore :execresult
INSERT OR IGNORE INTO objects (
	id, mastodon_id, type, original_actor_id, original_object_id, local, properties, published, updated
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) InsertObjectOrIgnore(ctx context.Context, arg InsertObjectParams) (sql.Result, error) {
	return q.db.ExecContext(ctx, insertObjectOrIgnore,
		arg.ID,
		arg.MastodonID,
		arg.Type,
		arg.OriginalActorID,
		arg.OriginalObjectID,
		arg.Local,
		arg.Properties,
		arg.Published,
		arg.Updated,
	)
}

const updateObjectProperties = `-- name: UpdateObjectProperties :exec
UPDATE objects SET properties = ?, updated = ?
WHERE id = ?
`

type UpdateObjectPropertiesParams struct {
	Properties string
	Updated    sql.NullInt64
	ID         string
}

func (q *Queries) UpdateObjectProperties(ctx context.Context, arg UpdateObjectPropertiesParams) error {
	_, err := q.db.ExecContext(ctx, updateObjectProperties, arg.Properties, arg.Updated, arg.ID)
	return err
}

const insertObjectRevision = `-- name: InsertObjectRevision :exec
INSERT INTO object_revisions (object_id, patch, created) VALUES (?, ?, ?)
`

type InsertObjectRevisionParams struct {
	ObjectID string
	Patch    string
	Created  int64
}

func (q *Queries) InsertObjectRevision(ctx context.Context, arg InsertObjectRevisionParams) error {
	_, err := q.db.ExecContext(ctx, insertObjectRevision, arg.ObjectID, arg.Patch, arg.Created)
	return err
}

const listObjectRevisions = `-- name: ListObjectRevisions :many
SELECT id, object_id, patch, created FROM object_revisions
WHERE object_id = ?
ORDER BY id DESC
`

func (q *Queries) ListObjectRevisions(ctx context.Context, objectID string) ([]ObjectRevision, error) {
	rows, err := q.db.QueryContext(ctx, listObjectRevisions, objectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ObjectRevision
	for rows.Next() {
		var i ObjectRevision
		if err := rows.Scan(&i.ID, &i.ObjectID, &i.Patch, &i.Created); err != nil {
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

const deleteOutboxObjectsByObject = `-- name: DeleteOutboxObjectsByObject :exec
DELETE FROM outbox_objects WHERE object_id = ?
`

func (q *Queries) DeleteOutboxObjectsByObject(ctx context.Context, objectID string) error {
	_, err := q.db.ExecContext(ctx, deleteOutboxObjectsByObject, objectID)
	return err
}

const deleteReblogsByObject = `-- name: DeleteReblogsByObject :exec
DELETE FROM actor_reblogs WHERE object_id = ?
`

func (q *Queries) DeleteReblogsByObject(ctx context.Context, objectID string) error {
	_, err := q.db.ExecContext(ctx, deleteReblogsByObject, objectID)
	return err
}

const deleteFavouritesByObject = `-- name: DeleteFavouritesByObject :exec
DELETE FROM actor_favourites WHERE object_id = ?
`

func (q *Queries) DeleteFavouritesByObject(ctx context.Context, objectID string) error {
	_, err := q.db.ExecContext(ctx, deleteFavouritesByObject, objectID)
	return err
}

const deleteNotificationsByObject = `-- name: DeleteNotificationsByObject :exec
DELETE FROM actor_notifications WHERE object_id = ?
`

func (q *Queries) DeleteNotificationsByObject(ctx context.Context, objectID sql.NullString) error {
	_, err := q.db.ExecContext(ctx, deleteNotificationsByObject, objectID)
	return err
}

const deleteRepliesByObject = `-- name: DeleteRepliesByObject :exec
DELETE FROM actor_replies WHERE object_id = ?1 OR in_reply_to_object_id = ?1
`

func (q *Queries) DeleteRepliesByObject(ctx context.Context, objectID string) error {
	_, err := q.db.ExecContext(ctx, deleteRepliesByObject, objectID)
	return err
}

const deleteIdempotencyKeysByObject = `-- name: DeleteIdempotencyKeysByObject :exec
DELETE FROM idempotency_keys WHERE object_id = ?
`

func (q *Queries) DeleteIdempotencyKeysByObject(ctx context.Context, objectID string) error {
	_, err := q.db.ExecContext(ctx, deleteIdempotencyKeysByObject, objectID)
	return err
}

const deleteObjectRevisions = `-- name: DeleteObjectRevisions :exec
DELETE FROM object_revisions WHERE object_id = ?
`

func (q *Queries) DeleteObjectRevisions(ctx context.Context, objectID string) error {
	_, err := q.db.ExecContext(ctx, deleteObjectRevisions, objectID)
	return err
}

const deleteObject = `-- name: DeleteObject :execresult
DELETE FROM objects WHERE id = ?
`

func (q *Queries) DeleteObject(ctx context.Context, id string) (sql.Result, error) {
	return q.db.ExecContext(ctx, deleteObject, id)
}
