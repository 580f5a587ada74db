package queries

import (
	"context"
	"database/sql"
)

const getActor = `-- name: GetActor :one
SELECT id, mastodon_id, type, username, domain, name, summary, inbox, outbox, followers, following, also_known_as, public_key, private_key, local, created, last_fetched FROM actors
WHERE id = ?
`

func (q *Queries) GetActor(ctx context.Context, id string) (Actor, error) {
	row := q.db.QueryRowContext(ctx, getActor, id)
	var i Actor
	err := row.Scan(
		&i.ID,
		&i.MastodonID,
		&i.Type,
		&i.Username,
		&i.Domain,
		&i.Name,
		&i.Summary,
		&i.Inbox,
		&i.Outbox,
		&i.Followers,
		&i.Following,
		&i.AlsoKnownAs,
		&i.PublicKey,
		&i.PrivateKey,
		&i.Local,
		&i.Created,
		&i.LastFetched,
	)
	return i, err
}

const getLocalActorByUsername = `-- name: GetLocalActorByUsername :one
SELECT id, mastodon_id, type, username, domain, name, summary, inbox, outbox, followers, following, also_known_as, public_key, private_key, local, created, last_fetched FROM actors
WHERE local = TRUE AND lower(username) = lower(?)
`

func (q *Queries) GetLocalActorByUsername(ctx context.Context, username string) (Actor, error) {
	row := q.db.QueryRowContext(ctx, getLocalActorByUsername, username)
	var i Actor
	err := row.Scan(
		&i.ID,
		&i.MastodonID,
		&i.Type,
		&i.Username,
		&i.Domain,
		&i.Name,
		&i.Summary,
		&i.Inbox,
		&i.Outbox,
		&i.Followers,
		&i.Following,
		&i.AlsoKnownAs,
		&i.PublicKey,
		&i.PrivateKey,
		&i.Local,
		&i.Created,
		&i.LastFetched,
	)
	return i, err
}

const insertActor = `-- name: InsertActor :execresult
INSERT OR IGNORE INTO actors (
	id, mastodon_id, type, username, domain, name, summary, inbox, outbox, followers, following, also_known_as, public_key, private_key, local, created, last_fetched
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type InsertActorParams struct {
	ID          string
	MastodonID  string
	Type        string
	Username    sql.NullString
	Domain      string
	Name        sql.NullString
	Summary     sql.NullString
	Inbox       string
	Outbox      sql.NullString
	Followers   sql.NullString
	Following   sql.NullString
	AlsoKnownAs string
	PublicKey   sql.NullString
	PrivateKey  []byte
	Local       bool
	Created     int64
	LastFetched sql.NullInt64
}

func (q *Queries) InsertActor(ctx context.Context, arg InsertActorParams) (sql.Result, error) {
	return q.db.ExecContext(ctx, insertActor,
		arg.ID,
		arg.MastodonID,
		arg.Type,
		arg.Username,
		arg.Domain,
		arg.Name,
		arg.Summary,
		arg.Inbox,
		arg.Outbox,
		arg.Followers,
		arg.Following,
		arg.AlsoKnownAs,
		arg.PublicKey,
		arg.PrivateKey,
		arg.Local,
		arg.Created,
		arg.LastFetched,
	)
}

const updateActorProfile = `-- name: UpdateActorProfile :exec
UPDATE actors
SET name = ?, summary = ?, inbox = ?, outbox = ?, followers = ?, following = ?, also_known_as = ?, public_key = ?, last_fetched = ?
WHERE id = ?
`

type UpdateActorProfileParams struct {
	Name        sql.NullString
	Summary     sql.NullString
	Inbox       string
	Outbox      sql.NullString
	Followers   sql.NullString
	Following   sql.NullString
	AlsoKnownAs string
	PublicKey   sql.NullString
	LastFetched sql.NullInt64
	ID          string
}

func (q *Queries) UpdateActorProfile(ctx context.Context, arg UpdateActorProfileParams) error {
	_, err := q.db.ExecContext(ctx, updateActorProfile,
		arg.Name,
		arg.Summary,
		arg.Inbox,
		arg.Outbox,
		arg.Followers,
		arg.Following,
		arg.AlsoKnownAs,
		arg.PublicKey,
		arg.LastFetched,
		arg.ID,
	)
	return err
}

const getSealedPrivateKey = `-- name: GetSealedPrivateKey :one
SELECT private_key FROM actors
WHERE id = ? AND local = TRUE
`

func (q *Queries) GetSealedPrivateKey(ctx context.Context, id string) ([]byte, error) {
	row := q.db.QueryRowContext(ctx, getSealedPrivateKey, id)
	var private_key []byte
	err := row.Scan(&private_key)
	return private_key, err
}
