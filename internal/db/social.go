package db

import (
	"context"
	"net/url"
	"time"

	"github.com/sidereusnuntius/gofederate/internal/domain"
)

type Social interface {
	AddOutboxEntry(ctx context.Context, entry domain.OutboxEntry) error
	GetOutbox(ctx context.Context, actor *url.URL, limit int) ([]domain.OutboxEntry, error)
	// AddReblog stores the reblog and its outbox entry atomically. A reblog whose activity IRI is already
	// stored leaves the database untouched and returns created = false.
	AddReblog(ctx context.Context, reblog domain.Reblog, entry domain.OutboxEntry) (created bool, err error)
	// RemoveReblog deletes the reblog created by the given Announce, along with its outbox entry.
	RemoveReblog(ctx context.Context, actor, activity *url.URL) error
	GetReblogs(ctx context.Context, object *url.URL) ([]domain.Reblog, error)
	AddLike(ctx context.Context, like domain.Like) (created bool, err error)
	RemoveLike(ctx context.Context, actor, object *url.URL) error
	GetLikes(ctx context.Context, object *url.URL) ([]domain.Like, error)
	AddNotification(ctx context.Context, notification domain.Notification) error
	GetNotifications(ctx context.Context, actor *url.URL, limit int) ([]domain.Notification, error)
	AddReply(ctx context.Context, reply domain.Reply) error
	GetReplies(ctx context.Context, object *url.URL) ([]domain.Reply, error)
	PutIdempotencyKey(ctx context.Context, key string, object *url.URL, expires time.Time) error
	// GetIdempotencyKey returns the object published under key, or ErrNotFound if the key is unknown or
	// expired at now.
	GetIdempotencyKey(ctx context.Context, key string, now time.Time) (*url.URL, error)
}

type Sequences interface {
	// NextSequence atomically increments the counter named key and returns its new value.
	NextSequence(ctx context.Context, key string) (int64, error)
}

type Peers interface {
	AddPeer(ctx context.Context, domain string) error
	GetPeers(ctx context.Context) ([]string, error)
}
