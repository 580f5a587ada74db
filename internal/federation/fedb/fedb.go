// Package fedb caches federated state: objects deduplicated by their origin IRI and actors fetched from
// remote servers.
package fedb

import (
	"context"
	"net/url"
	"strings"

	"codeberg.org/gruf/go-mutexes"
	"github.com/sidereusnuntius/gofederate/internal/config"
	"github.com/sidereusnuntius/gofederate/internal/db"
	"github.com/sidereusnuntius/gofederate/internal/domain"
	"github.com/sidereusnuntius/gofederate/internal/idgen"
	"github.com/sidereusnuntius/gofederate/internal/sanitize"
)

const (
	objectsCounter = "objects"
	actorsCounter  = "actors"
)

// Fetcher dereferences remote IRIs.
type Fetcher interface {
	Get(ctx context.Context, iri *url.URL) (map[string]any, error)
}

type FedDB struct {
	DB        db.DB
	Config    config.Configuration
	ids       *idgen.Generator
	fetcher   Fetcher
	sanitizer *sanitize.Sanitizer
	clock     domain.Clock
	locks     *mutexes.MutexMap
}

func New(DB db.DB, ids *idgen.Generator, config config.Configuration, fetcher Fetcher) *FedDB {
	locks := mutexes.MutexMap{}
	return &FedDB{
		DB:        DB,
		Config:    config,
		ids:       ids,
		fetcher:   fetcher,
		sanitizer: sanitize.New(nil),
		clock:     domain.SystemClock{},
		locks:     &locks,
	}
}

// SetFetcher replaces the fetcher. The signed client needs the instance actor's key, which is only available
// once the cache has created that actor.
func (fd *FedDB) SetFetcher(f Fetcher) {
	fd.fetcher = f
}

// SetClock is used by tests.
func (fd *FedDB) SetClock(c domain.Clock) {
	fd.clock = c
}

// Lock serializes work on id within this process.
func (fd *FedDB) Lock(id *url.URL) (unlock func()) {
	return fd.locks.Lock(id.String())
}

// NextID allocates an identifier from counter.
func (fd *FedDB) NextID(ctx context.Context, counter string) (string, error) {
	return fd.ids.Next(ctx, counter)
}

func (fd *FedDB) IsLocal(iri *url.URL) bool {
	return iri != nil && iri.Host == fd.Config.Domain
}

func (fd *FedDB) ActorIRI(username string) *url.URL {
	return fd.iri("ap", "users", username)
}

func (fd *FedDB) ObjectIRI(id string) *url.URL {
	return fd.iri("ap", "objects", id)
}

func (fd *FedDB) ActivityIRI(id string) *url.URL {
	return fd.iri("ap", "activities", id)
}

// iri joins elem under the instance url. JoinPath leaves the path relative when the base url has no path.
func (fd *FedDB) iri(elem ...string) *url.URL {
	u := fd.Config.Url.JoinPath(elem...)
	if !strings.HasPrefix(u.Path, "/") {
		u.Path = "/" + u.Path
	}
	return u
}
