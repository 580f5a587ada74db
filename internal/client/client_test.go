package client

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"code.superseriousbusiness.org/httpsig"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/gofederate/internal/domain"
	"github.com/sidereusnuntius/gofederate/internal/federation"
)

var key *rsa.PrivateKey
var algo = httpsig.RSA_SHA256
var ctx = context.Background()

func TestMain(m *testing.M) {
	var err error
	key, err = rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		log.Fatal().Err(err).Msg("tests setup failure")
		return
	}

	m.Run()
}

func toURL(s string) *url.URL {
	u, _ := url.Parse(s)
	return u
}

// verify checks the request signature and answers with status.
func verify(t *testing.T, keyID string, status int, check func(r *http.Request, body []byte)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Header.Set("Host", r.Host)
		verifier, err := httpsig.NewVerifier(r)
		if err != nil {
			t.Error(err)
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		if verifier.KeyId() != keyID {
			t.Errorf("expected key id %s, got %s", keyID, verifier.KeyId())
		}
		if err = verifier.Verify(&key.PublicKey, algo); err != nil {
			t.Error("signature validation error:", err)
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		body, _ := io.ReadAll(r.Body)
		if check != nil {
			check(r, body)
		}
		w.WriteHeader(status)
		w.Write([]byte(`{"id":"https://remote.example/users/bob","type":"Person"}`))
	})
}

func newClient(t *testing.T) *HttpClient {
	c, err := New(&http.Client{}, "gofederate-test", key, "https://local.example/ap/users/instance#main-key")
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestDeliverToActor(t *testing.T) {
	from := domain.Actor{ID: toURL("https://local.example/ap/users/alice")}
	activity := map[string]any{
		"id":   "https://local.example/ap/objects/1/activity",
		"type": "Create",
	}

	server := httptest.NewServer(verify(t, from.KeyID(), http.StatusAccepted, func(r *http.Request, body []byte) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/users/bob/inbox" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Content-Type"); got != ContentType {
			t.Errorf("unexpected content type %s", got)
		}
		if got := r.Header.Get("Accept"); got != AcceptType {
			t.Errorf("unexpected accept header %s", got)
		}
		if r.Header.Get("Digest") == "" {
			t.Error("missing digest header")
		}
		var got map[string]any
		if err := json.Unmarshal(body, &got); err != nil || got["type"] != "Create" {
			t.Errorf("unexpected body %s", body)
		}
	}))
	defer server.Close()

	to := domain.Actor{
		ID:    toURL("https://remote.example/users/bob"),
		Inbox: toURL(server.URL + "/users/bob/inbox"),
	}
	if err := newClient(t).DeliverToActor(ctx, key, from, to, activity); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDeliverToActor_Non2xx(t *testing.T) {
	from := domain.Actor{ID: toURL("https://local.example/ap/users/alice")}
	server := httptest.NewServer(verify(t, from.KeyID(), http.StatusForbidden, nil))
	defer server.Close()

	to := domain.Actor{
		ID:    toURL("https://remote.example/users/bob"),
		Inbox: toURL(server.URL + "/inbox"),
	}
	err := newClient(t).DeliverToActor(ctx, key, from, to, map[string]any{"type": "Follow"})

	var de *federation.DeliveryError
	if !errors.As(err, &de) {
		t.Fatalf("expected a delivery error, got %v", err)
	}
	if de.StatusCode != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", de.StatusCode)
	}
	if len(de.Body) == 0 {
		t.Error("expected the response body to be kept")
	}
}

func TestGet(t *testing.T) {
	server := httptest.NewServer(verify(t, "https://local.example/ap/users/instance#main-key", http.StatusOK, func(r *http.Request, _ []byte) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
	}))
	defer server.Close()

	doc, err := newClient(t).Get(ctx, toURL(server.URL+"/users/bob"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc["type"] != "Person" {
		t.Errorf("unexpected document %v", doc)
	}
}

func TestGet_NotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := newClient(t).Get(ctx, toURL(server.URL+"/users/nobody"))
	if !errors.Is(err, federation.ErrNotFoundIRI) {
		t.Errorf("expected ErrNotFoundIRI, got %v", err)
	}
}
