package web

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/gofederate/internal/db"
	"github.com/sidereusnuntius/gofederate/internal/federation"
	"github.com/sidereusnuntius/gofederate/internal/state"
)

const (
	UsersPath   = "/ap/users"
	ObjectsPath = "/ap/objects"
	ContentType = "application/activity+json"
	// maxBody bounds the size of an inbound activity.
	maxBody = 1 << 20
)

var errUnauthorized = errors.New("request signature could not be verified")

type Handler struct {
	state *state.State
}

func New(state *state.State) Handler {
	return Handler{
		state: state,
	}
}

// status maps an error returned while handling a request to its HTTP status code.
func status(err error) int {
	var invalid *federation.ValidationError
	var precondition *federation.PreconditionError
	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.Is(err, errUnauthorized), errors.Is(err, federation.ErrSignerMismatch):
		return http.StatusUnauthorized
	case errors.As(err, &precondition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func fail(w http.ResponseWriter, err error) {
	code := status(err)
	if code == http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
		http.Error(w, http.StatusText(code), code)
		return
	}
	log.Debug().Err(err).Int("code", code).Msg("request rejected")
	http.Error(w, err.Error(), code)
}
