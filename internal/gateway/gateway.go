// Package gateway applies the side effects of inbound activities and produces outbound ones.
package gateway

import (
	"context"
	"crypto"
	"errors"
	"fmt"
	"net/url"

	"code.superseriousbusiness.org/activity/streams/vocab"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/gofederate/internal/activity"
	"github.com/sidereusnuntius/gofederate/internal/config"
	"github.com/sidereusnuntius/gofederate/internal/conversions"
	"github.com/sidereusnuntius/gofederate/internal/db"
	"github.com/sidereusnuntius/gofederate/internal/domain"
	"github.com/sidereusnuntius/gofederate/internal/federation"
	"github.com/sidereusnuntius/gofederate/internal/federation/fedb"
)

const (
	activitiesCounter    = "activities"
	outboxCounter        = "outbox"
	notificationsCounter = "notifications"
	reblogsCounter       = "reblogs"
)

// Deliverer posts a signed activity to a single inbox.
type Deliverer interface {
	DeliverToActor(ctx context.Context, key crypto.PrivateKey, from, to domain.Actor, activity map[string]any) error
}

type Fanout interface {
	DeliverToFollowers(ctx context.Context, from domain.Actor, activity map[string]any) error
}

type Dispatcher struct {
	db     db.DB
	cache  *fedb.FedDB
	client Deliverer
	fanout Fanout
	cfg    *config.Configuration
	clock  domain.Clock
}

func New(DB db.DB, cache *fedb.FedDB, client Deliverer, fanout Fanout, cfg *config.Configuration) *Dispatcher {
	return &Dispatcher{
		db:     DB,
		cache:  cache,
		client: client,
		fanout: fanout,
		cfg:    cfg,
		clock:  domain.SystemClock{},
	}
}

// HandleJSON decodes an inbound activity and handles it. When signer is not nil it must be the activity's
// actor. Activity kinds this server does not implement are accepted and ignored.
func (d *Dispatcher) HandleJSON(ctx context.Context, body []byte, signer *url.URL) error {
	a, err := activity.Parse(body)
	if errors.Is(err, federation.ErrUnsupported) {
		log.Debug().Err(err).Msg("ignoring activity")
		return nil
	}
	if err != nil {
		return err
	}
	if actor := a.Head().Actor; signer != nil && actor.String() != signer.String() {
		return fmt.Errorf("%w: activity of %s signed by %s", federation.ErrSignerMismatch, actor, signer)
	}
	return d.Handle(ctx, a)
}

// Handle applies the side effects of a. Malformed and inapplicable activities yield a ValidationError or a
// PreconditionError; activities rejected by policy return nil.
func (d *Dispatcher) Handle(ctx context.Context, a activity.Activity) error {
	head := a.Head()
	log.Debug().Str("type", string(head.Kind)).Str("id", head.ID.String()).Str("actor", head.Actor.String()).Msg("handling activity")

	switch a := a.(type) {
	case activity.Follow:
		return d.handleFollow(ctx, a)
	case activity.Accept:
		return d.handleAccept(ctx, a)
	case activity.Create:
		return d.handleCreate(ctx, a)
	case activity.Update:
		return d.handleUpdate(ctx, a)
	case activity.Delete:
		return d.handleDelete(ctx, a)
	case activity.Announce:
		return d.handleAnnounce(ctx, a)
	case activity.Like:
		return d.handleLike(ctx, a)
	case activity.Undo:
		return d.handleUndo(ctx, a)
	case activity.Move:
		return d.handleMove(ctx, a)
	default:
		return fmt.Errorf("%w: activity type %s", federation.ErrUnsupported, head.Kind)
	}
}

// send signs activity with the key of the local actor from and posts it to to.
func (d *Dispatcher) send(ctx context.Context, from, to domain.Actor, activity map[string]any) error {
	key, err := d.cache.PrivateKey(ctx, from.ID, d.cfg.UserKEK)
	if err != nil {
		return err
	}
	return d.client.DeliverToActor(ctx, key, from, to, activity)
}

// notify records a notification for the local actor actor.
func (d *Dispatcher) notify(ctx context.Context, kind domain.NotificationType, actor, from, object *url.URL) error {
	id, err := d.cache.NextID(ctx, notificationsCounter)
	if err != nil {
		return err
	}
	return d.db.AddNotification(ctx, domain.Notification{
		ID:      id,
		Type:    kind,
		Actor:   actor,
		From:    from,
		Object:  object,
		Created: d.clock.Now(),
	})
}

func serialize(t vocab.Type) (map[string]any, error) {
	m, err := conversions.Serialize(t)
	if err != nil {
		log.Error().Err(err).Str("type", t.GetTypeName()).Msg("activity serialization error")
		return nil, err
	}
	return m, nil
}

func parseIRI(s string) *url.URL {
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil
	}
	return u
}
