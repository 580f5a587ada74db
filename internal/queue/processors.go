package queue

import (
	"context"
	"crypto"
	"crypto/rsa"
	"fmt"
	"net/url"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/gofederate/internal/domain"
)

type Deliverer interface {
	DeliverToActor(ctx context.Context, key crypto.PrivateKey, from, to domain.Actor, activity map[string]any) error
}

type Actors interface {
	GetActor(ctx context.Context, iri *url.URL) (domain.Actor, error)
	PrivateKey(ctx context.Context, id *url.URL, kek string) (*rsa.PrivateKey, error)
}

// Consumer processes Deliver messages taken from the queue.
type Consumer struct {
	actors Actors
	client Deliverer
}

func NewConsumer(actors Actors, client Deliverer) *Consumer {
	return &Consumer{
		actors: actors,
		client: client,
	}
}

// Deliver signs and posts one message. A returned error makes the transport retry it.
func (c *Consumer) Deliver(ctx context.Context, m DeliverMessage) (err error) {
	defer func() {
		if err != nil {
			log.Error().Err(err).Str("from", m.ActorID).Str("to", m.ToActorID).Msg("delivery failed")
		}
	}()

	fromIRI, err := url.Parse(m.ActorID)
	if err != nil {
		return fmt.Errorf("sender %q: %w", m.ActorID, err)
	}
	toIRI, err := url.Parse(m.ToActorID)
	if err != nil {
		return fmt.Errorf("recipient %q: %w", m.ToActorID, err)
	}

	from, err := c.actors.GetActor(ctx, fromIRI)
	if err != nil {
		return err
	}
	to, err := c.actors.GetActor(ctx, toIRI)
	if err != nil {
		return err
	}

	key, err := c.actors.PrivateKey(ctx, from.ID, m.UserKEK)
	if err != nil {
		return err
	}

	log.Debug().Str("to", m.ToActorID).Str("inbox", to.Inbox.String()).Msg("delivering activity")
	return c.client.DeliverToActor(ctx, key, from, to, m.Activity)
}
