package queries

import (
	"context"
	"database/sql"
)

const insertFollowing = `-- name: InsertFollowing :execresult
INSERT OR IGNORE INTO actor_following (id, actor_id, target_actor_id, target_actor_acct, state, created)
VALUES (?, ?, ?, ?, ?, ?)
`

type InsertFollowingParams struct {
	ID              string
	ActorID         string
	TargetActorID   string
	TargetActorAcct string
	State           string
	Created         int64
}

func (q *Queries) InsertFollowing(ctx context.Context, arg InsertFollowingParams) (sql.Result, error) {
	return q.db.ExecContext(ctx, insertFollowing,
		arg.ID,
		arg.ActorID,
		arg.TargetActorID,
		arg.TargetActorAcct,
		arg.State,
		arg.Created,
	)
}

const acceptFollowing = `-- name: AcceptFollowing :exec
UPDATE actor_following SET state = 'accepted'
WHERE actor_id = ? AND target_actor_id = ? AND state = 'pending'
`

type AcceptFollowingParams struct {
	ActorID       string
	TargetActorID string
}

func (q *Queries) AcceptFollowing(ctx context.Context, arg AcceptFollowingParams) error {
	_, err := q.db.ExecContext(ctx, acceptFollowing, arg.ActorID, arg.TargetActorID)
	return err
}

const deleteFollowing = `-- name: DeleteFollowing :exec
DELETE FROM actor_following WHERE actor_id = ? AND target_actor_id = ?
`

type DeleteFollowingParams struct {
	ActorID       string
	TargetActorID string
}

func (q *Queries) DeleteFollowing(ctx context.Context, arg DeleteFollowingParams) error {
	_, err := q.db.ExecContext(ctx, deleteFollowing, arg.ActorID, arg.TargetActorID)
	return err
}

const listFollowers = `-- name: ListFollowers :many
SELECT actor_id FROM actor_following
WHERE target_actor_id = ? AND state = ?
ORDER BY created, id
LIMIT ?
`

type ListFollowersParams struct {
	TargetActorID string
	State         string
	Limit         int64
}

func (q *Queries) ListFollowers(ctx context.Context, arg ListFollowersParams) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listFollowers, arg.TargetActorID, arg.State, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var actor_id string
		if err := rows.Scan(&actor_id); err != nil {
			return nil, err
		}
		items = append(items, actor_id)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listFollowing = `-- name: ListFollowing :many
SELECT target_actor_id FROM actor_following
WHERE actor_id = ? AND state = ?
ORDER BY created, id
LIMIT ?
`

type ListFollowingParams struct {
	ActorID string
	State   string
	Limit   int64
}

func (q *Queries) ListFollowing(ctx context.Context, arg ListFollowingParams) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listFollowing, arg.ActorID, arg.State, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var target_actor_id string
		if err := rows.Scan(&target_actor_id); err != nil {
			return nil, err
		}
		items = append(items, target_actor_id)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listFollowingEdges = `-- name: ListFollowingEdges :many
SELECT id, actor_id, target_actor_id, target_actor_acct, state, created FROM actor_following
WHERE actor_id = ?
ORDER BY created, id
`

func (q *Queries) ListFollowingEdges(ctx context.Context, actorID string) ([]ActorFollowing, error) {
	rows, err := q.db.QueryContext(ctx, listFollowingEdges, actorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ActorFollowing
	for rows.Next() {
		var i ActorFollowing
		if err := rows.Scan(
			&i.ID,
			&i.ActorID,
			&i.TargetActorID,
			&i.TargetActorAcct,
			&i.State,
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

const countFollowingEdges = `-- name: CountFollowingEdges :one
SELECT COUNT(*) FROM actor_following
WHERE actor_id = ? AND target_actor_id = ?
`

type CountFollowingEdgesParams struct {
	ActorID       string
	TargetActorID string
}

func (q *Queries) CountFollowingEdges(ctx context.Context, arg CountFollowingEdgesParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, countFollowingEdges, arg.ActorID, arg.TargetActorID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const isFollowing = `-- name: IsFollowing :one
SELECT EXISTS(
	SELECT 1 FROM actor_following
	WHERE actor_id = ? AND target_actor_id = ? AND state = 'accepted'
)
`

type IsFollowingParams struct {
	ActorID       string
	TargetActorID string
}

func (q *Queries) IsFollowing(ctx context.Context, arg IsFollowingParams) (bool, error) {
	row := q.db.QueryRowContext(ctx, isFollowing, arg.ActorID, arg.TargetActorID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}
