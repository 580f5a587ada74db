package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/gofederate/internal/conversions"
	"github.com/sidereusnuntius/gofederate/internal/db"
	"github.com/sidereusnuntius/gofederate/internal/domain"
	"github.com/sidereusnuntius/gofederate/internal/federation"
)

// IdempotencyWindow is how long a client-supplied idempotency key maps to the note it created.
const IdempotencyWindow = time.Hour

// Note is a status authored by a local actor.
type Note struct {
	Content   string
	To        []string
	Cc        []string
	InReplyTo *url.URL
	// IdempotencyKey, when set, makes repeated submissions return the first note instead of publishing again.
	IdempotencyKey string
}

// PublishNote stores a note authored by author and delivers a Create to its followers.
func (d *Dispatcher) PublishNote(ctx context.Context, author domain.Actor, note Note) (domain.Object, error) {
	if !author.Local {
		return domain.Object{}, fmt.Errorf("%w: %s is not a local actor", federation.ErrPrecondition, author.ID)
	}

	now := d.clock.Now()
	key := ""
	if note.IdempotencyKey != "" {
		key = author.MastodonID + ":" + note.IdempotencyKey
		id, err := d.db.GetIdempotencyKey(ctx, key, now)
		if err == nil {
			return d.cache.Get(ctx, id)
		}
		if !errors.Is(err, db.ErrNotFound) {
			return domain.Object{}, err
		}
	}

	props := map[string]any{
		"type":    domain.NoteType,
		"content": note.Content,
		"to":      nonNil(note.To),
		"cc":      nonNil(note.Cc),
	}
	if note.InReplyTo != nil {
		props["inReplyTo"] = note.InReplyTo.String()
	}

	obj, err := d.cache.CreateObject(ctx, author, props)
	if err != nil {
		return domain.Object{}, err
	}

	outboxID, err := d.cache.NextID(ctx, outboxCounter)
	if err != nil {
		return domain.Object{}, err
	}
	err = d.db.AddOutboxEntry(ctx, domain.OutboxEntry{
		ID:        outboxID,
		Actor:     author.ID,
		Object:    obj.ID,
		To:        note.To,
		Cc:        note.Cc,
		Published: obj.Published,
	})
	if err != nil {
		return domain.Object{}, err
	}

	if note.InReplyTo != nil {
		reply := domain.Reply{
			Actor:     author.ID,
			Object:    obj.ID,
			InReplyTo: d.localIRI(ctx, note.InReplyTo),
		}
		if err = d.db.AddReply(ctx, reply); err != nil {
			return domain.Object{}, err
		}
	}

	if key != "" {
		if err = d.db.PutIdempotencyKey(ctx, key, obj.ID, now.Add(IdempotencyWindow)); err != nil {
			return domain.Object{}, err
		}
	}

	create, err := d.newCreate(ctx, author, obj)
	if err != nil {
		return domain.Object{}, err
	}
	if err = d.fanout.DeliverToFollowers(ctx, author, create); err != nil {
		log.Error().Err(err).Str("object", obj.ID.String()).Msg("failed to deliver note to followers")
	}
	return obj, nil
}

func (d *Dispatcher) newCreate(ctx context.Context, author domain.Actor, obj domain.Object) (map[string]any, error) {
	n, err := conversions.NewNote(obj)
	if err != nil {
		return nil, err
	}
	id, err := d.cache.NextID(ctx, activitiesCounter)
	if err != nil {
		return nil, err
	}
	return serialize(conversions.NewCreate(d.cache.ActivityIRI(id), author.ID, n, obj.Published))
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
