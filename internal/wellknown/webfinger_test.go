package wellknown

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/sidereusnuntius/gofederate/internal/config"
	"github.com/sidereusnuntius/gofederate/internal/db/impl"
	"github.com/sidereusnuntius/gofederate/internal/domain"
	"github.com/sidereusnuntius/gofederate/internal/federation/fedb"
	"github.com/sidereusnuntius/gofederate/internal/idgen"
	"github.com/sidereusnuntius/gofederate/internal/initialization"
	"github.com/sidereusnuntius/gofederate/internal/state"
)

var router chi.Router

func TestMain(m *testing.M) {
	cfg := config.Configuration{
		Domain:        "local.example",
		Https:         true,
		UserKEK:       "test kek",
		KeyWorkFactor: 10,
		RsaKeySize:    1024,
	}
	if err := cfg.Finish(); err != nil {
		panic(err)
	}

	conn, err := initialization.OpenDB("file:wellknown?mode=memory&cache=shared")
	if err != nil {
		panic(err)
	}
	if err = initialization.SetupDB(conn, "../../migrations", "wellknown"); err != nil {
		panic(err)
	}

	DB := impl.New(cfg, conn, impl.Options{Returning: true})
	ids, err := idgen.New(DB, nil, nil)
	if err != nil {
		panic(err)
	}
	cache := fedb.New(DB, ids, cfg, nil)
	if _, err = cache.EnsureLocalActor(context.Background(), "alice", "Alice", domain.PersonType); err != nil {
		panic(err)
	}

	router = chi.NewRouter()
	Mount(&state.State{Config: &cfg, DB: DB, Cache: cache}, router)

	code := m.Run()
	conn.Close()
	os.Exit(code)
}

func TestWebfingerEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		resource string
		status   int
		want     *WebfingerResponse
	}{
		{
			name:     "local actor",
			resource: "acct:alice@local.example",
			status:   http.StatusOK,
			want: &WebfingerResponse{
				Subject: "acct:alice@local.example",
				Aliases: []string{"https://local.example/ap/users/alice"},
				Links: []WebfingerLink{
					{Rel: "self", Type: "application/activity+json", Href: "https://local.example/ap/users/alice"},
				},
			},
		},
		{name: "unknown actor", resource: "acct:bob@local.example", status: http.StatusNotFound},
		{name: "other domain", resource: "acct:alice@remote.example", status: http.StatusNotFound},
		{name: "not an acct", resource: "https://local.example/ap/users/alice", status: http.StatusBadRequest},
		{name: "missing host", resource: "acct:alice", status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/.well-known/webfinger?resource="+url.QueryEscape(tt.resource), nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, rec.Code)
			}
			if tt.want == nil {
				return
			}

			var got WebfingerResponse
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if diff := cmp.Diff(*tt.want, got); diff != "" {
				t.Errorf("unexpected response (-want +got):\n%s", diff)
			}
		})
	}
}
