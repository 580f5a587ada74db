package queries

import (
	"context"
)

const nextSequence = `-- name: NextSequence :one
INSERT INTO id_sequences (key, value) VALUES (?, 1)
ON CONFLICT (key) DO UPDATE SET value = value + 1
RETURNING value
`

func (q *Queries) NextSequence(ctx context.Context, key string) (int64, error) {
	row := q.db.QueryRowContext(ctx, nextSequence, key)
	var value int64
	err := row.Scan(&value)
	return value, err
}

const incrementSequence = `-- name: IncrementSequence :exec
INSERT INTO id_sequences (key, value) VALUES (?, 1)
ON CONFLICT (key) DO UPDATE SET value = value + 1
`

func (q *Queries) IncrementSequence(ctx context.Context, key string) error {
	_, err := q.db.ExecContext(ctx, incrementSequence, key)
	return err
}

const getSequence = `-- name: GetSequence :one
SELECT value FROM id_sequences WHERE key = ?
`

func (q *Queries) GetSequence(ctx context.Context, key string) (int64, error) {
	row := q.db.QueryRowContext(ctx, getSequence, key)
	var value int64
	err := row.Scan(&value)
	return value, err
}

const insertPeer = `-- name: InsertPeer :exec
INSERT OR IGNORE INTO peers (domain) VALUES (?)
`

func (q *Queries) InsertPeer(ctx context.Context, domain string) error {
	_, err := q.db.ExecContext(ctx, insertPeer, domain)
	return err
}

const listPeers = `-- name: ListPeers :many
SELECT domain FROM peers ORDER BY domain
`

func (q *Queries) ListPeers(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listPeers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var domain string
		if err := rows.Scan(&domain); err != nil {
			return nil, err
		}
		items = append(items, domain)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
