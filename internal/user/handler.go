// AngelaMos | 2026
// handler.go

package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"unicode"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Carlos130395/grow-analytics-backend/internal/core"
	"github.com/Carlos130395/grow-analytics-backend/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	v := validator.New(validator.WithRequiredStructEnabled())
	//nolint:errcheck // registration only fails on an empty tag name
	_ = v.RegisterValidation("containsdigit", containsDigit)

	return &Handler{
		service:   service,
		validator: v,
	}
}

func containsDigit(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// route is a capability descriptor: each operation declares the roles it
// requires and a single generic check enforces them.
type route struct {
	method  string
	pattern string
	roles   []string
	handler http.HandlerFunc
}

func (h *Handler) routes() []route {
	return []route{
		{http.MethodGet, "/", []string{RoleAdmin}, h.ListUsers},
		{http.MethodGet, "/{userID}", []string{RoleAdmin, RoleUser}, h.GetUser},
		{http.MethodPost, "/", []string{RoleAdmin}, h.CreateUser},
		{http.MethodPut, "/{userID}", []string{RoleAdmin, RoleUser}, h.UpdateUser},
		{http.MethodDelete, "/{userID}", []string{RoleAdmin}, h.DeleteUser},
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)

			for _, rt := range h.routes() {
				r.With(middleware.RequireRole(rt.roles...)).
					Method(rt.method, rt.pattern, rt.handler)
			}
		})
	})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	params := ListUsersParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "pageSize", 10),
		SortBy:   r.URL.Query().Get("sortBy"),
		Order:    r.URL.Query().Get("order"),
		Filter:   r.URL.Query().Get("filter"),
	}
	params.Normalize()

	users, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		ToUserResponseList(users),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUserID(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, core.FormatValidationErrors(err))
		return
	}

	user, err := h.service.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.Conflict(w, "email already registered")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToUserResponse(user))
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUserID(w, r)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, core.FormatValidationErrors(err))
		return
	}

	user, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		if errors.Is(err, core.ErrDuplicateKey) {
			core.Conflict(w, "email already registered")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUserID(w, r)
	if !ok {
		return
	}

	if _, err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Message(w, "user deleted")
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, core.FormatValidationErrors(err))
		return
	}

	token, user, err := h.service.Authenticate(
		r.Context(),
		req.Email,
		req.Password,
	)
	if err != nil {
		if errors.Is(err, core.ErrUnauthorized) {
			core.Unauthorized(w, "invalid email or password")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OKWithToken(w, token, ToUserResponse(user))
}

func parseUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || id < 1 {
		core.BadRequest(w, "invalid user id")
		return 0, false
	}
	return id, true
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
