package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mkravets/userhub/internal/cache"
	"github.com/mkravets/userhub/internal/store"
)

// AccountStore is the slice of the store the handlers need. Small on
// purpose so tests can fake it.
type AccountStore interface {
	CreateAccount(ctx context.Context, id, password string, profile map[string]any) error
	VerifyCredentials(ctx context.Context, id, password string) error
	FetchProfile(ctx context.Context, id string) (map[string]any, error)
}

type TokenMinter interface {
	Mint(accountID string) (string, error)
}

type AccountsHandler struct {
	store    AccountStore
	tokens   TokenMinter
	profiles *cache.ProfileCache
}

func NewAccountsHandler(st AccountStore, tokens TokenMinter, profiles *cache.ProfileCache) *AccountsHandler {
	return &AccountsHandler{
		store:    st,
		tokens:   tokens,
		profiles: profiles,
	}
}

type createParams struct {
	Pw string `form:"pw" binding:"required"`
}

// Create handles PUT /users/:id?pw=...  with the profile as JSON body.
// An id already taken is answered as a 303 pointing at the resource, not
// as an error.
func (h *AccountsHandler) Create(ctx *gin.Context) {
	id := ctx.Param("id")

	if id == "" {
		RespondBadRequest(ctx, "missing user id")
		return
	}

	var params createParams

	if !BindQuery(ctx, &params) {
		return
	}

	var profile map[string]any

	if !BindJSON(ctx, &profile) {
		return
	}

	if profile == nil {
		RespondBadRequest(ctx, "profile body must be a JSON object")
		return
	}

	err := h.store.CreateAccount(ctx.Request.Context(), id, params.Pw, profile)

	switch {
	case err == nil:
		token, err := h.tokens.Mint(id)

		if err != nil {
			slog.Default().Error("mint token failed", "err", err, "user", id)
			RespondInternal(ctx)
			return
		}

		ctx.JSON(http.StatusCreated, gin.H{
			"status":    "CREATED",
			"authToken": token,
		})

	case errors.Is(err, store.ErrAlreadyExists):
		loc := resourceURL(ctx, id)
		ctx.Header("Location", loc)
		ctx.JSON(http.StatusSeeOther, gin.H{
			"status": "EXISTS",
			"info":   "user " + id + " already exists at " + loc,
		})

	case errors.Is(err, store.ErrInvalidArgument):
		RespondBadRequest(ctx, "missing user id, password or profile")

	default:
		slog.Default().Error("create account failed", "err", err, "user", id)
		RespondInternal(ctx)
	}
}

type loginRequest struct {
	// pointer so "field absent" and "empty" are both detectable; a
	// missing pw is answered 401, not 400
	Pw *string `json:"pw"`
}

// Login handles PUT /users/:id/auth with body {pw}.
func (h *AccountsHandler) Login(ctx *gin.Context) {
	id := ctx.Param("id")

	if id == "" {
		RespondBadRequest(ctx, "missing user id")
		return
	}

	var req loginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if req.Pw == nil || *req.Pw == "" {
		// deliberately indistinguishable from a wrong password
		RespondUnauthorized(ctx, "authentication failed")
		return
	}

	err := h.store.VerifyCredentials(ctx.Request.Context(), id, *req.Pw)

	switch {
	case err == nil:
		token, err := h.tokens.Mint(id)

		if err != nil {
			slog.Default().Error("mint token failed", "err", err, "user", id)
			RespondInternal(ctx)
			return
		}

		ctx.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"authToken": token,
		})

	case errors.Is(err, store.ErrNotFound):
		RespondNotFound(ctx, "no user "+id)

	case errors.Is(err, store.ErrInvalidCredentials):
		RespondUnauthorized(ctx, "authentication failed")

	default:
		slog.Default().Error("verify credentials failed", "err", err, "user", id)
		RespondInternal(ctx)
	}
}

// GetProfile handles GET /users/:id. The bearer check runs in middleware
// before this.
func (h *AccountsHandler) GetProfile(ctx *gin.Context) {
	id := ctx.Param("id")

	if id == "" {
		RespondBadRequest(ctx, "missing user id")
		return
	}

	if h.profiles != nil {
		if profile, ok := h.profiles.Get(id); ok {
			ctx.JSON(http.StatusOK, profile)
			return
		}
	}

	profile, err := h.store.FetchProfile(ctx.Request.Context(), id)

	switch {
	case err == nil:
		if h.profiles != nil {
			h.profiles.Set(id, profile)
		}
		ctx.JSON(http.StatusOK, profile)

	case errors.Is(err, store.ErrNotFound):
		RespondNotFound(ctx, "no user "+id)

	default:
		slog.Default().Error("fetch profile failed", "err", err, "user", id)
		RespondInternal(ctx)
	}
}

// resourceURL builds the absolute URL of an account resource for the
// Location header on the EXISTS path.
func resourceURL(ctx *gin.Context, id string) string {
	scheme := "http"

	if ctx.Request.TLS != nil {
		scheme = "https"
	}

	if forwarded := ctx.GetHeader("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}

	return scheme + "://" + ctx.Request.Host + "/users/" + id
}
