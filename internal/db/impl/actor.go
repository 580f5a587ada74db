package impl

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/sidereusnuntius/gofederate/internal/db/impl/queries"
	"github.com/sidereusnuntius/gofederate/internal/domain"
)

func (d *dbImpl) GetActor(ctx context.Context, id *url.URL) (domain.Actor, error) {
	row, err := d.queries.GetActor(ctx, id.String())
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: actor %s", d.HandleError(err), id)
	}
	return actorFromRow(row), nil
}

func (d *dbImpl) GetLocalActorByUsername(ctx context.Context, username string) (domain.Actor, error) {
	row, err := d.queries.GetLocalActorByUsername(ctx, username)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: local actor %s", d.HandleError(err), username)
	}
	return actorFromRow(row), nil
}

func (d *dbImpl) InsertActor(ctx context.Context, actor domain.Actor, sealedKey []byte) (bool, error) {
	created := actor.Created
	if created.IsZero() {
		created = time.Now()
	}
	var fetched time.Time
	if !actor.Local {
		fetched = time.Now()
	}

	result, err := d.queries.InsertActor(ctx, queries.InsertActorParams{
		ID:          actor.ID.String(),
		MastodonID:  actor.MastodonID,
		Type:        actor.Type,
		Username:    nullString(actor.Username),
		Domain:      actor.Domain,
		Name:        nullString(actor.Name),
		Summary:     nullString(actor.Summary),
		Inbox:       actor.Inbox.String(),
		Outbox:      nullURL(actor.Outbox),
		Followers:   nullURL(actor.Followers),
		Following:   nullURL(actor.Following),
		AlsoKnownAs: encodeList(actor.AlsoKnownAs),
		PublicKey:   nullString(actor.PublicKey),
		PrivateKey:  sealedKey,
		Local:       actor.Local,
		Created:     created.UnixMilli(),
		LastFetched: nullTime(fetched),
	})
	if err != nil {
		return false, fmt.Errorf("%w: inserting actor %s", d.HandleError(err), actor.ID)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, d.HandleError(err)
	}
	return n > 0, nil
}

func (d *dbImpl) UpdateActorProfile(ctx context.Context, actor domain.Actor) error {
	err := d.queries.UpdateActorProfile(ctx, queries.UpdateActorProfileParams{
		Name:        nullString(actor.Name),
		Summary:     nullString(actor.Summary),
		Inbox:       actor.Inbox.String(),
		Outbox:      nullURL(actor.Outbox),
		Followers:   nullURL(actor.Followers),
		Following:   nullURL(actor.Following),
		AlsoKnownAs: encodeList(actor.AlsoKnownAs),
		PublicKey:   nullString(actor.PublicKey),
		LastFetched: nullTime(time.Now()),
		ID:          actor.ID.String(),
	})
	if err != nil {
		return fmt.Errorf("%w: updating actor %s", d.HandleError(err), actor.ID)
	}
	return nil
}

func (d *dbImpl) GetSealedPrivateKey(ctx context.Context, id *url.URL) ([]byte, error) {
	key, err := d.queries.GetSealedPrivateKey(ctx, id.String())
	if err != nil {
		return nil, fmt.Errorf("%w: private key of %s", d.HandleError(err), id)
	}
	return key, nil
}
