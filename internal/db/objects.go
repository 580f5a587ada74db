package db

import (
	"context"
	"net/url"
	"time"

	"github.com/sidereusnuntius/gofederate/internal/domain"
)

type Objects interface {
	GetObject(ctx context.Context, id *url.URL) (domain.Object, error)
	GetObjectByOriginalID(ctx context.Context, original *url.URL) (domain.Object, error)
	// InsertObject inserts obj unless a row with the same original object IRI exists, in which case the
	// existing row is returned along with inserted = false.
	InsertObject(ctx context.Context, obj domain.Object) (stored domain.Object, inserted bool, err error)
	// UpdateObject overwrites the object's properties and records the previous content as a revision.
	UpdateObject(ctx context.Context, id *url.URL, properties map[string]any, updated time.Time) error
	// DeleteObject removes the object and every row depending on it in a single transaction.
	DeleteObject(ctx context.Context, id *url.URL) error
	GetObjectRevisions(ctx context.Context, id *url.URL) ([]domain.Revision, error)
}
