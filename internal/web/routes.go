package web

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) Mount(r chi.Router) {
	r.Route(UsersPath+"/{name}", func(r chi.Router) {
		r.Get("/", GetActor(h))
		r.Post("/inbox", PostInbox(h))
	})
	r.Get(ObjectsPath+"/{id}", GetObject(h))
}
