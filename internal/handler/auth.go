package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/project-manager/internal/config"
	"github.com/iliyamo/project-manager/internal/middleware"
	"github.com/iliyamo/project-manager/internal/model"
	"github.com/iliyamo/project-manager/internal/policy"
	"github.com/iliyamo/project-manager/internal/repository"
	"github.com/iliyamo/project-manager/internal/utils"
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, users *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // admin | manager | developer, optional
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPart struct {
	ID          uint64     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        model.Role `json:"role"`
	Permissions []string   `json:"permissions"`
}
type authResp struct {
	User         userPart  `json:"user"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	AccessExp    time.Time `json:"accessExpires"`
	RefreshExp   time.Time `json:"refreshExpires"`
	Permissions  []string  `json:"permissions"`
}

func toUserPart(u model.User) userPart {
	return userPart{
		ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role,
		Permissions: policy.PermissionsFor(u.Role),
	}
}

// issuePair signs a fresh access/refresh pair and stores the hash of
// the refresh token on the user row, replacing whatever was there.
// This is the rotation point: after it returns, exactly one refresh
// token verifies for this user.
func (h *AuthHandler) issuePair(ctx context.Context, u model.User) (utils.TokenPair, error) {
	access, accessExp, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Email, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return utils.TokenPair{}, err
	}
	refresh, refreshExp, err := utils.NewRefreshToken(h.Cfg.JWTRefreshSecret, u.ID, u.Email, u.Role, h.Cfg.RefreshTTLDays)
	if err != nil {
		return utils.TokenPair{}, err
	}
	hash, err := utils.HashRefreshToken(refresh, h.Cfg.BcryptCost)
	if err != nil {
		return utils.TokenPair{}, err
	}
	if err := h.Users.UpdateRefreshHash(ctx, u.ID, &hash); err != nil {
		return utils.TokenPair{}, err
	}
	return utils.TokenPair{
		AccessToken: access, RefreshToken: refresh,
		AccessExp: accessExp, RefreshExp: refreshExp,
	}, nil
}

// Register creates a user. No tokens are issued; the client logs in
// afterwards.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "name, email and password are required")
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role != "" && !model.ValidRole(role) {
		return fail(c, http.StatusBadRequest, "unknown role")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Name, req.Email, req.Password, model.Role(role), h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return fail(c, http.StatusConflict, "email already exists")
		}
		return fail(c, http.StatusInternalServerError, "create user failed")
	}

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "load user failed")
	}
	return c.JSON(http.StatusCreated, toUserPart(u))
}

// Login verifies credentials and returns a new token pair. A login
// rotates the stored refresh hash, so any earlier session's refresh
// token stops working.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "email and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusUnauthorized, "invalid credentials")
		}
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, "invalid credentials")
	}

	pair, err := h.issuePair(ctx, u)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "issue tokens failed")
	}
	return c.JSON(http.StatusOK, authResp{
		User: toUserPart(u), AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken,
		AccessExp: pair.AccessExp, RefreshExp: pair.RefreshExp,
		Permissions: policy.PermissionsFor(u.Role),
	})
}

// Refresh rotates the session. The refresh middleware has already
// verified the token's signature and expiry; here it is compared with
// the stored hash. A token that verifies cryptographically but does
// not match the stored hash has been superseded by a later login or
// refresh, and the holder is rejected with 403, not 401.
func (h *AuthHandler) Refresh(c echo.Context) error {
	uid, _ := c.Get(middleware.CtxUserID).(uint64)
	raw, _ := c.Get(middleware.CtxRefreshToken).(string)
	if uid == 0 || raw == "" {
		return fail(c, http.StatusUnauthorized, "missing refresh token")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusUnauthorized, "unknown user")
		}
		return fail(c, http.StatusInternalServerError, "load user failed")
	}
	if u.RefreshTokenHash == nil || !utils.VerifyRefreshToken(*u.RefreshTokenHash, raw) {
		return fail(c, http.StatusForbidden, "refresh token no longer valid")
	}

	pair, err := h.issuePair(ctx, u)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "issue tokens failed")
	}
	return c.JSON(http.StatusOK, authResp{
		User: toUserPart(u), AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken,
		AccessExp: pair.AccessExp, RefreshExp: pair.RefreshExp,
		Permissions: policy.PermissionsFor(u.Role),
	})
}

// Logout clears the stored refresh hash. The current access token
// stays cryptographically valid until it expires; only the refresh
// path is cut.
func (h *AuthHandler) Logout(c echo.Context) error {
	uid, ok := c.Get(middleware.CtxUserID).(uint64)
	if !ok || uid == 0 {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.UpdateRefreshHash(ctx, uid, nil); err != nil {
		return fail(c, http.StatusInternalServerError, "logout failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Me returns the authenticated user with its permission list.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, ok := c.Get(middleware.CtxUserID).(uint64)
	if !ok || uid == 0 {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusUnauthorized, "unknown user")
		}
		return fail(c, http.StatusInternalServerError, "load user failed")
	}
	return c.JSON(http.StatusOK, toUserPart(u))
}
