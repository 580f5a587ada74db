package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"sync"
	"testing"

	"github.com/sidereusnuntius/gofederate/internal/activity"
	"github.com/sidereusnuntius/gofederate/internal/config"
	"github.com/sidereusnuntius/gofederate/internal/db"
	"github.com/sidereusnuntius/gofederate/internal/db/impl"
	"github.com/sidereusnuntius/gofederate/internal/domain"
	"github.com/sidereusnuntius/gofederate/internal/federation/fedb"
	"github.com/sidereusnuntius/gofederate/internal/idgen"
	"github.com/sidereusnuntius/gofederate/internal/initialization"
	"github.com/sidereusnuntius/gofederate/internal/mocks"
	"go.uber.org/mock/gomock"
)

var (
	ctx           = context.Background()
	conn          *sql.DB
	DB            db.DB
	cache         *fedb.FedDB
	configuration config.Configuration
)

func TestMain(m *testing.M) {
	configuration = config.Configuration{
		Domain:            "local.example",
		Https:             true,
		UserKEK:           "test kek",
		KeyWorkFactor:     10,
		RsaKeySize:        1024,
		AutoAcceptFollows: true,
	}
	if err := configuration.Finish(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %s", err)
		os.Exit(1)
	}

	var err error
	conn, err = initialization.OpenDB("file:gateway?mode=memory&cache=shared")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open connection: %s", err)
		os.Exit(1)
	}
	if err = initialization.SetupDB(conn, "../../migrations", "gateway"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run migrations: %s", err)
		os.Exit(1)
	}

	DB = impl.New(configuration, conn, impl.Options{Returning: true})
	ids, err := idgen.New(DB, nil, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create id generator: %s", err)
		os.Exit(1)
	}
	cache = fedb.New(DB, ids, configuration, nil)

	code := m.Run()
	conn.Close()
	os.Exit(code)
}

type recordingFanout struct {
	mu    sync.Mutex
	calls []map[string]any
}

func (f *recordingFanout) DeliverToFollowers(_ context.Context, _ domain.Actor, activity map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, activity)
	return nil
}

func newDispatcher(t *testing.T, cfg config.Configuration) (*Dispatcher, *mocks.MockDeliverer, *recordingFanout) {
	ctrl := gomock.NewController(t)
	deliverer := mocks.NewMockDeliverer(ctrl)
	fanout := &recordingFanout{}
	return New(DB, cache, deliverer, fanout, &cfg), deliverer, fanout
}

func toURL(s string) *url.URL {
	u, _ := url.Parse(s)
	return u
}

func count(t *testing.T, query string, args ...any) int {
	t.Helper()
	var n int
	if err := conn.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("counting rows: %v", err)
	}
	return n
}

// remote stores a remote actor so that no fetch is needed.
func remote(t *testing.T, name string) domain.Actor {
	t.Helper()
	id := toURL("https://remote.example/users/" + name)
	actor := domain.Actor{
		ID:         id,
		MastodonID: "remote-" + name,
		Type:       domain.PersonType,
		Username:   name,
		Domain:     "remote.example",
		Inbox:      id.JoinPath("inbox"),
		Followers:  id.JoinPath("followers"),
	}
	if _, err := DB.InsertActor(ctx, actor, nil); err != nil {
		t.Fatalf("inserting %s: %v", name, err)
	}
	return actor
}

// aliased stores a remote actor that lists alias in alsoKnownAs.
func aliased(t *testing.T, name string, alias *url.URL) domain.Actor {
	t.Helper()
	id := toURL("https://remote.example/users/" + name)
	actor := domain.Actor{
		ID:          id,
		MastodonID:  "remote-" + name,
		Type:        domain.PersonType,
		Username:    name,
		Domain:      "remote.example",
		Inbox:       id.JoinPath("inbox"),
		Followers:   id.JoinPath("followers"),
		AlsoKnownAs: []string{alias.String()},
	}
	if _, err := DB.InsertActor(ctx, actor, nil); err != nil {
		t.Fatalf("inserting %s: %v", name, err)
	}
	return actor
}

func local(t *testing.T, name string) domain.Actor {
	t.Helper()
	actor, err := cache.EnsureLocalActor(ctx, name, name, domain.PersonType)
	if err != nil {
		t.Fatalf("creating %s: %v", name, err)
	}
	return actor
}

func parse(t *testing.T, m map[string]any) activity.Activity {
	t.Helper()
	a, err := activity.FromMap(m)
	if err != nil {
		t.Fatalf("decoding activity: %v", err)
	}
	return a
}

// storeRemoteNote caches a note authored by author addressed to the given audience.
func storeRemoteNote(t *testing.T, author domain.Actor, slug string, to, cc []string) domain.Object {
	t.Helper()
	original := toURL(author.ID.String() + "/notes/" + slug)
	obj, _, err := cache.CacheObject(ctx, map[string]any{
		"id":           original.String(),
		"type":         "Note",
		"attributedTo": author.ID.String(),
		"content":      slug,
		"to":           toAny(to),
		"cc":           toAny(cc),
	}, author.ID, original, false)
	if err != nil {
		t.Fatalf("caching note: %v", err)
	}
	return obj
}

func toAny(list []string) []any {
	out := make([]any, 0, len(list))
	for _, s := range list {
		out = append(out, s)
	}
	return out
}
