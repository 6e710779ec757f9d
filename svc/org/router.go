package org

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quinncodes/orgspace/pkg/httpx"
	"github.com/quinncodes/orgspace/svc/identity"
)

// Router exposes the organization endpoints. It expects the identity
// middleware to have run so the caller can be read from the context.
func Router(svc *Service) chi.Router {
	r := chi.NewRouter()

	// The creation page descriptor. The suggested slug arrives from
	// the not-found redirect and is echoed back for the form.
	r.Get("/new", func(w http.ResponseWriter, req *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{
			"page":      "org-create",
			"suggested": req.URL.Query().Get("suggested"),
		})
	})

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		userID, ok := identity.UserIDFromContext(req.Context())
		if !ok {
			httpx.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}

		orgs, err := svc.List(req.Context(), userID)
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "failed to list organizations")
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"organizations": orgs})
	})

	r.Post("/", func(w http.ResponseWriter, req *http.Request) {
		userID, ok := identity.UserIDFromContext(req.Context())
		if !ok {
			httpx.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}

		var params CreateParams
		if err := httpx.Decode(req, &params); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}

		result, err := svc.Create(req.Context(), userID, params)
		if err != nil {
			switch {
			case errors.Is(err, ErrNameRequired), errors.Is(err, ErrInvalidSlug):
				httpx.Error(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, ErrSlugTaken):
				httpx.Error(w, http.StatusConflict, err.Error())
			default:
				httpx.Error(w, http.StatusInternalServerError, "failed to create organization")
			}
			return
		}

		httpx.JSON(w, http.StatusCreated, result)
	})

	return r
}
