package admin

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quinncodes/orgspace/pkg/httpx"
	"github.com/quinncodes/orgspace/svc/identity"
)

// AdminAPIFactory builds a provider admin client that forwards the
// given caller headers, so the provider re-checks the caller's
// privileges on every call.
type AdminAPIFactory func(forward http.Header) identity.AdminAPI

// Router exposes the platform-admin user management endpoints. All
// routes require an authenticated platform admin; the provider is
// still the final authority since calls forward the caller's
// credentials.
func Router(adminAPI AdminAPIFactory) chi.Router {
	r := chi.NewRouter()
	r.Use(RequireAdmin)

	r.Get("/users", func(w http.ResponseWriter, req *http.Request) {
		list, err := adminAPI(req.Header).ListUsers(req.Context(), listParamsFromQuery(req))
		if err != nil {
			writeProviderError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, list)
	})

	r.Post("/users", func(w http.ResponseWriter, req *http.Request) {
		var params identity.CreateUserParams
		if err := httpx.Decode(req, &params); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if params.Email == "" || params.Password == "" {
			httpx.Error(w, http.StatusBadRequest, "email and password are required")
			return
		}

		user, err := adminAPI(req.Header).CreateUser(req.Context(), params)
		if err != nil {
			writeProviderError(w, err)
			return
		}
		httpx.JSON(w, http.StatusCreated, user)
	})

	r.Post("/users/{id}/role", func(w http.ResponseWriter, req *http.Request) {
		userID, err := uuid.Parse(chi.URLParam(req, "id"))
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid user id")
			return
		}

		var body struct {
			Role identity.Role `json:"role"`
		}
		if err := httpx.Decode(req, &body); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if body.Role != identity.RoleUser && body.Role != identity.RoleAdmin {
			httpx.Error(w, http.StatusBadRequest, "role must be user or admin")
			return
		}

		user, err := adminAPI(req.Header).SetRole(req.Context(), userID, body.Role)
		if err != nil {
			writeProviderError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, user)
	})

	r.Post("/users/{id}/ban", func(w http.ResponseWriter, req *http.Request) {
		userID, err := uuid.Parse(chi.URLParam(req, "id"))
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid user id")
			return
		}

		var body struct {
			Reason    string `json:"reason"`
			ExpiresIn int64  `json:"expires_in"` // seconds; 0 means indefinite
		}
		if err := httpx.Decode(req, &body); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}

		user, err := adminAPI(req.Header).BanUser(req.Context(), identity.BanUserParams{
			UserID:    userID,
			Reason:    body.Reason,
			ExpiresIn: time.Duration(body.ExpiresIn) * time.Second,
		})
		if err != nil {
			writeProviderError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, user)
	})

	r.Post("/users/{id}/unban", func(w http.ResponseWriter, req *http.Request) {
		userID, err := uuid.Parse(chi.URLParam(req, "id"))
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid user id")
			return
		}

		user, err := adminAPI(req.Header).UnbanUser(req.Context(), userID)
		if err != nil {
			writeProviderError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, user)
	})

	return r
}

// RequireAdmin rejects callers that are not authenticated platform
// admins: 401 when anonymous, 403 otherwise.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := identity.UserFromContext(r.Context())
		if !ok {
			httpx.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if user.Role != identity.RoleAdmin {
			httpx.Error(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func listParamsFromQuery(req *http.Request) identity.ListUsersParams {
	q := req.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	params := identity.ListUsersParams{
		Limit:         limit,
		Offset:        offset,
		SortBy:        q.Get("sort_by"),
		SortDirection: q.Get("sort_dir"),
	}
	if params.SortBy == "" {
		params.SortBy = "createdAt"
		params.SortDirection = "desc"
	}
	if search := q.Get("search"); search != "" {
		field := q.Get("search_field")
		if field != "email" && field != "name" {
			field = "email"
		}
		params.SearchField = field
		params.SearchOperator = "contains"
		params.SearchValue = search
	}
	return params
}

func writeProviderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, identity.ErrUnauthorized):
		httpx.Error(w, http.StatusForbidden, "provider rejected the operation")
	default:
		httpx.Error(w, http.StatusBadGateway, "identity provider unavailable")
	}
}
