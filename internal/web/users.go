package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"

	"code.superseriousbusiness.org/activity/streams/vocab"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/gofederate/internal/conversions"
	"github.com/sidereusnuntius/gofederate/internal/db"
	"github.com/sidereusnuntius/gofederate/internal/domain"
	"github.com/sidereusnuntius/gofederate/internal/visibility"
)

// GetActor serves the ActivityStreams document of a local actor.
func GetActor(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := h.state.DB.GetLocalActorByUsername(r.Context(), chi.URLParam(r, "name"))
		if err != nil {
			fail(w, err)
			return
		}
		write(w, conversions.ActorToType(actor))
	}
}

// GetObject serves an object authored on this instance. Cached remote objects are not served. Public and
// unlisted objects are served to anyone; narrower audiences only to signed requests from a recipient.
func GetObject(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		iri := h.state.Cache.ObjectIRI(chi.URLParam(r, "id"))
		obj, err := h.state.DB.GetObject(ctx, iri)
		if err != nil {
			fail(w, err)
			return
		}
		if !obj.Meta.Local {
			fail(w, db.ErrNotFound)
			return
		}

		author, err := h.state.DB.GetActor(ctx, obj.Meta.OriginalActorID)
		if err != nil {
			fail(w, err)
			return
		}
		if err = h.authorize(ctx, r, obj, author); err != nil {
			fail(w, err)
			return
		}

		note, err := conversions.NewNote(obj)
		if err != nil {
			fail(w, err)
			return
		}
		write(w, note)
	}
}

// authorize reports db.ErrNotFound unless the requester may see obj, so that hidden objects are
// indistinguishable from missing ones.
func (h *Handler) authorize(ctx context.Context, r *http.Request, obj domain.Object, author domain.Actor) error {
	to, cc := obj.To(), obj.Cc()
	vis := visibility.Detect(to, cc, author.FollowersURI())
	if vis == visibility.Public || vis == visibility.Unlisted {
		return nil
	}

	hidden := fmt.Errorf("%w: object %s", db.ErrNotFound, obj.ID)
	if r.Header.Get("Signature") == "" {
		return hidden
	}
	requester, err := h.verify(ctx, r, nil)
	if err != nil {
		log.Debug().Err(err).Str("object", obj.ID.String()).Msg("rejected signed fetch")
		return hidden
	}

	id := requester.ID.String()
	if id == author.ID.String() || slices.Contains(to, id) || slices.Contains(cc, id) {
		return nil
	}
	if vis == visibility.Private {
		following, err := h.state.DB.IsFollowing(ctx, requester.ID, author.ID)
		if err != nil {
			return err
		}
		if following {
			return nil
		}
	}
	return hidden
}

func write(w http.ResponseWriter, t vocab.Type) {
	m, err := conversions.Serialize(t)
	if err != nil {
		fail(w, err)
		return
	}

	w.Header().Set("Content-Type", ContentType)
	if err = json.NewEncoder(w).Encode(m); err != nil {
		log.Error().Err(err).Str("type", t.GetTypeName()).Msg("unable to encode response")
	}
}
