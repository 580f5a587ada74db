package wellknown

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/gofederate/internal/db"
	"github.com/sidereusnuntius/gofederate/internal/state"
)

const JrdType = "application/jrd+json"

type WebfingerLink struct {
	Rel  string `json:"rel"`
	Type string `json:"type"`
	Href string `json:"href"`
}

type WebfingerResponse struct {
	Subject string          `json:"subject"`
	Aliases []string        `json:"aliases,omitempty"`
	Links   []WebfingerLink `json:"links"`
}

func Mount(state *state.State, r chi.Router) {
	r.Route("/.well-known", func(r chi.Router) {
		r.Get("/webfinger", WebfingerEndpoint(state))
	})
}

// WebfingerEndpoint resolves acct:user@domain resources naming local actors.
func WebfingerEndpoint(state *state.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resource := r.URL.Query().Get("resource")
		username, host, ok := strings.Cut(strings.TrimPrefix(resource, "acct:"), "@")
		if !ok || username == "" || !strings.HasPrefix(resource, "acct:") {
			http.Error(w, "failed to parse resource", http.StatusBadRequest)
			return
		}
		if !strings.EqualFold(host, state.Config.Domain) {
			http.Error(w, "", http.StatusNotFound)
			return
		}

		actor, err := state.DB.GetLocalActorByUsername(r.Context(), username)
		if err != nil {
			http.Error(w, "", handleErr(err))
			return
		}

		res := WebfingerResponse{
			Subject: "acct:" + actor.Acct(),
			Aliases: []string{actor.ID.String()},
			Links: []WebfingerLink{
				{Rel: "self", Type: "application/activity+json", Href: actor.ID.String()},
			},
		}
		w.Header().Set("Content-Type", JrdType)
		if err = json.NewEncoder(w).Encode(res); err != nil {
			log.Error().Err(err).Msg("unable to marshal webfinger response")
		}
	}
}

func handleErr(err error) int {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	default:
		log.Error().Err(err).Msg("webfinger lookup failed")
		return http.StatusInternalServerError
	}
}
