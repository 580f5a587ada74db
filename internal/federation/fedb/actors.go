package fedb

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"net/url"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/gofederate/internal/conversions"
	"github.com/sidereusnuntius/gofederate/internal/db"
	"github.com/sidereusnuntius/gofederate/internal/domain"
	"github.com/sidereusnuntius/gofederate/internal/federation"
	"github.com/sidereusnuntius/gofederate/internal/utils"
	"github.com/sidereusnuntius/gofederate/internal/validate"
)

// GetActor returns the actor identified by iri, fetching and storing it on first encounter.
func (fd *FedDB) GetActor(ctx context.Context, iri *url.URL) (domain.Actor, error) {
	actor, err := fd.DB.GetActor(ctx, iri)
	if err == nil || !errors.Is(err, db.ErrNotFound) || fd.IsLocal(iri) {
		return actor, err
	}

	unlock := fd.Lock(iri)
	defer unlock()

	// Another request may have cached it while this one waited for the lock.
	if actor, err = fd.DB.GetActor(ctx, iri); !errors.Is(err, db.ErrNotFound) {
		return actor, err
	}

	actor, err = fd.fetchActor(ctx, iri)
	if err != nil {
		return domain.Actor{}, err
	}

	actor.MastodonID, err = fd.ids.Next(ctx, actorsCounter)
	if err != nil {
		return domain.Actor{}, err
	}

	inserted, err := fd.DB.InsertActor(ctx, actor, nil)
	if err != nil {
		return domain.Actor{}, err
	}
	if !inserted {
		return fd.DB.GetActor(ctx, iri)
	}

	if err = fd.DB.AddPeer(ctx, actor.Domain); err != nil {
		return domain.Actor{}, err
	}
	log.Debug().Str("actor", iri.String()).Msg("cached remote actor")
	return actor, nil
}

// RefreshActor fetches iri again and overwrites the stored profile, e.g. after a key rotation.
func (fd *FedDB) RefreshActor(ctx context.Context, iri *url.URL) (domain.Actor, error) {
	if fd.IsLocal(iri) {
		return fd.DB.GetActor(ctx, iri)
	}

	stored, err := fd.DB.GetActor(ctx, iri)
	if errors.Is(err, db.ErrNotFound) {
		return fd.GetActor(ctx, iri)
	}
	if err != nil {
		return domain.Actor{}, err
	}

	unlock := fd.Lock(iri)
	defer unlock()

	fetched, err := fd.fetchActor(ctx, iri)
	if err != nil {
		return domain.Actor{}, err
	}
	fetched.MastodonID = stored.MastodonID
	fetched.Created = stored.Created

	if err = fd.DB.UpdateActorProfile(ctx, fetched); err != nil {
		return domain.Actor{}, err
	}
	return fetched, nil
}

func (fd *FedDB) fetchActor(ctx context.Context, iri *url.URL) (domain.Actor, error) {
	if fd.fetcher == nil {
		return domain.Actor{}, fmt.Errorf("%w: %s", federation.ErrNotFoundIRI, iri)
	}

	m, err := fd.fetcher.Get(ctx, iri)
	if err != nil {
		log.Error().Err(err).Str("iri", iri.String()).Msg("failed to fetch actor")
		return domain.Actor{}, err
	}

	actor, err := conversions.ActorFromMap(ctx, m)
	if err != nil {
		return domain.Actor{}, err
	}
	if actor.ID.String() != iri.String() {
		return domain.Actor{}, fmt.Errorf("%w: actor document for %s has id %s", federation.ErrUnprocessablePropValue, iri, actor.ID)
	}
	return actor, nil
}

// CreateLocalActor registers a new actor on this instance, generating its key pair. The private key is
// stored sealed with the configured key-encryption key.
func (fd *FedDB) CreateLocalActor(ctx context.Context, username, name, actorType string) (domain.Actor, error) {
	if err := validate.Username(username); err != nil {
		return domain.Actor{}, err
	}

	pub, priv, err := utils.GenerateKeysPem(fd.Config.RsaKeySize)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("generating keys for %s: %w", username, err)
	}
	sealed, err := utils.SealKey(priv, fd.Config.UserKEK, fd.Config.KeyWorkFactor)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("sealing key of %s: %w", username, err)
	}

	mastodonID, err := fd.ids.Next(ctx, actorsCounter)
	if err != nil {
		return domain.Actor{}, err
	}

	id := fd.ActorIRI(username)
	actor := domain.Actor{
		ID:         id,
		MastodonID: mastodonID,
		Type:       actorType,
		Username:   username,
		Domain:     fd.Config.Domain,
		Name:       name,
		Inbox:      id.JoinPath("inbox"),
		Outbox:     id.JoinPath("outbox"),
		Followers:  id.JoinPath("followers"),
		Following:  id.JoinPath("following"),
		PublicKey:  pub,
		Local:      true,
		Created:    fd.clock.Now(),
	}

	inserted, err := fd.DB.InsertActor(ctx, actor, sealed)
	if err != nil {
		return domain.Actor{}, err
	}
	if !inserted {
		return domain.Actor{}, fmt.Errorf("%w: username %s is taken", db.ErrConflict, username)
	}
	log.Info().Str("username", username).Msg("registered local actor")
	return actor, nil
}

// EnsureLocalActor returns the local actor called username, creating it if it does not exist.
func (fd *FedDB) EnsureLocalActor(ctx context.Context, username, name, actorType string) (domain.Actor, error) {
	actor, err := fd.DB.GetLocalActorByUsername(ctx, username)
	if errors.Is(err, db.ErrNotFound) {
		return fd.CreateLocalActor(ctx, username, name, actorType)
	}
	return actor, err
}

// PrivateKey unseals the private key of the local actor id with kek.
func (fd *FedDB) PrivateKey(ctx context.Context, id *url.URL, kek string) (*rsa.PrivateKey, error) {
	sealed, err := fd.DB.GetSealedPrivateKey(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(sealed) == 0 {
		return nil, fmt.Errorf("%w: %s has no private key", federation.ErrPrecondition, id)
	}

	pem, err := utils.OpenKey(sealed, kek)
	if err != nil {
		return nil, err
	}
	return utils.ParsePrivateKeyPem(pem)
}
