package db

import (
	"context"
	"net/url"

	"github.com/sidereusnuntius/gofederate/internal/domain"
)

type Actors interface {
	GetActor(ctx context.Context, id *url.URL) (domain.Actor, error)
	GetLocalActorByUsername(ctx context.Context, username string) (domain.Actor, error)
	// InsertActor stores the actor unless a row with the same IRI already exists. sealedKey is nil for remote
	// actors.
	InsertActor(ctx context.Context, actor domain.Actor, sealedKey []byte) (inserted bool, err error)
	// UpdateActorProfile overwrites the mutable profile fields and refreshes the last fetch timestamp.
	UpdateActorProfile(ctx context.Context, actor domain.Actor) error
	GetSealedPrivateKey(ctx context.Context, id *url.URL) ([]byte, error)
}
