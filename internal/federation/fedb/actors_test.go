package fedb

import (
	"errors"
	"net/url"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sidereusnuntius/gofederate/internal/conversions"
	"github.com/sidereusnuntius/gofederate/internal/db"
	"github.com/sidereusnuntius/gofederate/internal/domain"
	"github.com/sidereusnuntius/gofederate/internal/federation"
	"github.com/sidereusnuntius/gofederate/internal/mocks"
	"github.com/sidereusnuntius/gofederate/internal/utils"
	"go.uber.org/mock/gomock"
)

func remoteDocument(t *testing.T, id *url.URL) map[string]any {
	t.Helper()
	pub, _, err := utils.GenerateKeysPem(1024)
	if err != nil {
		t.Fatalf("generating keys: %v", err)
	}
	m, err := conversions.Serialize(conversions.ActorToType(domain.Actor{
		ID:        id,
		Type:      domain.PersonType,
		Username:  "bob",
		Name:      "Bob",
		Inbox:     id.JoinPath("inbox"),
		Followers: id.JoinPath("followers"),
		PublicKey: pub,
	}))
	if err != nil {
		t.Fatalf("serializing actor: %v", err)
	}
	return m
}

func TestGetActor_FetchesOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	fd := New(DB, ids, configuration, fetcher)

	iri := toURL("https://remote.example/users/fetched")
	fetcher.EXPECT().Get(gomock.Any(), iri).Return(remoteDocument(t, iri), nil).Times(1)

	var wg sync.WaitGroup
	results := make([]domain.Actor, 4)
	errs := make([]error, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = fd.GetActor(ctx, iri)
		}(i)
	}
	wg.Wait()

	for i := range results {
		if errs[i] != nil {
			t.Fatalf("call %d: unexpected error: %v", i, errs[i])
		}
		if results[i].MastodonID != results[0].MastodonID {
			t.Errorf("call %d returned a different actor", i)
		}
	}

	actor := results[0]
	if actor.Domain != "remote.example" || actor.Username != "bob" || actor.PublicKey == "" || actor.Local {
		t.Errorf("unexpected actor %+v", actor)
	}
	if n := count(t, "SELECT COUNT(*) FROM actors WHERE id = ?", iri.String()); n != 1 {
		t.Errorf("expected one row, found %d", n)
	}
}

func TestGetActor_IdMismatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	fd := New(DB, ids, configuration, fetcher)

	iri := toURL("https://remote.example/users/alias")
	fetcher.EXPECT().Get(gomock.Any(), iri).Return(remoteDocument(t, toURL("https://remote.example/users/other")), nil)

	_, err := fd.GetActor(ctx, iri)
	if !errors.Is(err, federation.ErrUnprocessablePropValue) {
		t.Errorf("expected ErrUnprocessablePropValue, got %v", err)
	}
}

func TestGetActor_FetchError(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	fd := New(DB, ids, configuration, fetcher)

	iri := toURL("https://remote.example/users/gone")
	fetcher.EXPECT().Get(gomock.Any(), iri).Return(nil, federation.ErrNotFoundIRI)

	if _, err := fd.GetActor(ctx, iri); !errors.Is(err, federation.ErrNotFoundIRI) {
		t.Errorf("expected ErrNotFoundIRI, got %v", err)
	}
}

func TestRefreshActor(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	fd := New(DB, ids, configuration, fetcher)

	iri := toURL("https://remote.example/users/rotating")
	first := remoteDocument(t, iri)
	second := remoteDocument(t, iri)
	gomock.InOrder(
		fetcher.EXPECT().Get(gomock.Any(), iri).Return(first, nil),
		fetcher.EXPECT().Get(gomock.Any(), iri).Return(second, nil),
	)

	before, err := fd.GetActor(ctx, iri)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	after, err := fd.RefreshActor(ctx, iri)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if before.PublicKey == after.PublicKey {
		t.Error("expected the refreshed key to differ")
	}
	if before.MastodonID != after.MastodonID {
		t.Error("refreshing must keep the local id")
	}

	stored, err := DB.GetActor(ctx, iri)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.PublicKey != after.PublicKey {
		t.Error("expected the stored key to be updated")
	}
}

func TestCreateLocalActor(t *testing.T) {
	fd := New(DB, ids, configuration, nil)

	actor, err := fd.CreateLocalActor(ctx, "alice", "Alice", domain.PersonType)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := domain.Actor{
		ID:         toURL("https://local.example/ap/users/alice"),
		MastodonID: actor.MastodonID,
		Type:       domain.PersonType,
		Username:   "alice",
		Domain:     "local.example",
		Name:       "Alice",
		Inbox:      toURL("https://local.example/ap/users/alice/inbox"),
		Outbox:     toURL("https://local.example/ap/users/alice/outbox"),
		Followers:  toURL("https://local.example/ap/users/alice/followers"),
		Following:  toURL("https://local.example/ap/users/alice/following"),
		PublicKey:  actor.PublicKey,
		Local:      true,
		Created:    actor.Created,
	}
	if diff := cmp.Diff(want, actor); diff != "" {
		t.Errorf("actor mismatch (-want +got):\n%s", diff)
	}

	key, err := fd.PrivateKey(ctx, actor.ID, configuration.UserKEK)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pub, err := utils.ParsePublicKeyPem(actor.PublicKey)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !key.PublicKey.Equal(pub) {
		t.Error("unsealed key does not match the public key")
	}

	if _, err = fd.PrivateKey(ctx, actor.ID, "wrong kek"); err == nil {
		t.Error("expected unsealing with the wrong kek to fail")
	}

	if _, err = fd.CreateLocalActor(ctx, "alice", "Other", domain.PersonType); !errors.Is(err, db.ErrConflict) {
		t.Errorf("expected ErrConflict for a taken username, got %v", err)
	}
}

func TestCreateLocalActor_InvalidUsername(t *testing.T) {
	fd := New(DB, ids, configuration, nil)
	if _, err := fd.CreateLocalActor(ctx, "not valid!", "", domain.PersonType); err == nil {
		t.Error("expected an error for an invalid username")
	}
}

func TestEnsureLocalActor(t *testing.T) {
	fd := New(DB, ids, configuration, nil)

	first, err := fd.EnsureLocalActor(ctx, "instance", "gofederate", domain.ServiceType)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := fd.EnsureLocalActor(ctx, "instance", "gofederate", domain.ServiceType)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.MastodonID != second.MastodonID || second.Type != domain.ServiceType {
		t.Errorf("expected the same service actor, got %+v and %+v", first, second)
	}
}
