package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Prantik009/accusitions/internal/api/cookie"
	"github.com/Prantik009/accusitions/internal/api/metrics"
	"github.com/Prantik009/accusitions/internal/core/domain"
	"github.com/Prantik009/accusitions/internal/core/ports"
	"github.com/Prantik009/accusitions/internal/pkg/token"
)

// TokenManager mints and checks session tokens.
type TokenManager interface {
	Issue(accountID, email, role string) (string, time.Time, error)
	Verify(tokenStr string) (*token.Claims, error)
}

// AuditSink receives auth audit events. Implementations must not block.
type AuditSink interface {
	Enqueue(event domain.AuthEvent)
}

// AuthOptions is the transport-level policy of the auth endpoints.
type AuthOptions struct {
	CookieName string
	// UnifyCredentialErrors answers unknown emails with the same 401 as a
	// wrong password so responses cannot be used to enumerate accounts.
	UnifyCredentialErrors bool
}

type AuthHandler struct {
	authService ports.AuthService
	tokens      TokenManager
	cookies     *cookie.Manager
	audit       AuditSink
	log         zerolog.Logger
	opts        AuthOptions
}

func NewAuthHandler(
	authService ports.AuthService,
	tokens TokenManager,
	cookies *cookie.Manager,
	audit AuditSink,
	log zerolog.Logger,
	opts AuthOptions,
) *AuthHandler {
	if opts.CookieName == "" {
		opts.CookieName = "token"
	}
	return &AuthHandler{
		authService: authService,
		tokens:      tokens,
		cookies:     cookies,
		audit:       audit,
		log:         log,
		opts:        opts,
	}
}

// Signup registers a new account and starts a session.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if ok, err := h.bindAndValidate(c, &req); !ok {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAccountExists) {
			h.record(c, domain.EventSignup, domain.OutcomeAccountExists, "", req.Email)
			return c.JSON(http.StatusConflict, errorResponse{Error: "Email already exists"})
		}
		h.record(c, domain.EventSignup, domain.OutcomeError, "", req.Email)
		return err
	}

	if err := h.startSession(c, user); err != nil {
		h.record(c, domain.EventSignup, domain.OutcomeError, user.ID, user.Email)
		return err
	}

	h.record(c, domain.EventSignup, domain.OutcomeSuccess, user.ID, user.Email)
	return c.JSON(http.StatusCreated, authResponse{Message: "User registered", User: toUserResponse(user)})
}

// Signin authenticates an account and starts a session.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signinRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/auth/signin [post]
func (h *AuthHandler) Signin(c echo.Context) error {
	var req signinRequest
	if ok, err := h.bindAndValidate(c, &req); !ok {
		return err
	}

	user, err := h.authService.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			h.record(c, domain.EventSignin, domain.OutcomeAccountNotFound, "", req.Email)
			if h.opts.UnifyCredentialErrors {
				return c.JSON(http.StatusUnauthorized, errorResponse{Error: "Invalid credentials"})
			}
			return c.JSON(http.StatusNotFound, errorResponse{Error: "User not found"})
		case errors.Is(err, domain.ErrInvalidCredentials):
			h.record(c, domain.EventSignin, domain.OutcomeInvalidCredentials, "", req.Email)
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: "Invalid credentials"})
		}
		h.record(c, domain.EventSignin, domain.OutcomeError, "", req.Email)
		return err
	}

	if err := h.startSession(c, user); err != nil {
		h.record(c, domain.EventSignin, domain.OutcomeError, user.ID, user.Email)
		return err
	}

	h.record(c, domain.EventSignin, domain.OutcomeSuccess, user.ID, user.Email)
	return c.JSON(http.StatusOK, authResponse{Message: "User signed in successfully", User: toUserResponse(user)})
}

// Signout clears the session cookie. It always succeeds; the token, when
// present, is verified only to attribute the audit event.
//
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /api/auth/signout [post]
func (h *AuthHandler) Signout(c echo.Context) error {
	outcome := domain.OutcomeNoSession
	accountID, email := "", "unknown"

	if raw, ok := h.cookies.Get(c, h.opts.CookieName); ok {
		claims, err := h.tokens.Verify(raw)
		if err != nil {
			outcome = domain.OutcomeInvalidToken
			h.log.Warn().Err(err).Msg("invalid token during signout")
		} else {
			outcome = domain.OutcomeSuccess
			accountID, email = claims.AccountID, claims.Email
		}
	}

	h.cookies.Clear(c, h.opts.CookieName)

	h.record(c, domain.EventSignout, outcome, accountID, email)
	return c.JSON(http.StatusOK, messageResponse{Message: "User signed out successfully"})
}

// Me returns the identity carried by the verified session token.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	resp := sessionResponse{AccountID: claims.AccountID, Email: claims.Email, Role: claims.Role}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Unix()
	}
	return c.JSON(http.StatusOK, resp)
}

// AdminPing confirms the caller holds the admin role.
//
// @Summary      Admin check
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/auth/admin/ping [get]
func (h *AuthHandler) AdminPing(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	h.log.Info().Str("account_id", claims.AccountID).Msg("admin ping")
	return c.JSON(http.StatusOK, messageResponse{Message: "pong"})
}

// bindAndValidate decodes the body into req and runs its validate tags.
// When ok is false the 400 response has already been written and err is the
// result of writing it.
func (h *AuthHandler) bindAndValidate(c echo.Context, req any) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if n, ok := req.(interface{ normalize() }); ok {
		n.normalize()
	}
	if err := c.Validate(req); err != nil {
		resp := errorResponse{Error: "validation failed"}
		var ve *ValidationError
		if errors.As(err, &ve) {
			resp.Details = ve.Fields
		} else {
			resp.Details = []FieldError{{Field: "body", Message: err.Error()}}
		}
		return false, c.JSON(http.StatusBadRequest, resp)
	}
	return true, nil
}

func (h *AuthHandler) startSession(c echo.Context, user *domain.PublicAccount) error {
	signed, _, err := h.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return err
	}
	h.cookies.Set(c, h.opts.CookieName, signed)
	metrics.TokensIssuedTotal.Inc()
	return nil
}

func (h *AuthHandler) record(c echo.Context, typ domain.AuthEventType, outcome, accountID, email string) {
	metrics.AuthRequestsTotal.WithLabelValues(string(typ), outcome).Inc()
	if h.audit == nil {
		return
	}
	h.audit.Enqueue(domain.AuthEvent{
		Type:      typ,
		Outcome:   outcome,
		AccountID: accountID,
		Email:     domain.NormalizeEmail(email),
		RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
		RemoteIP:  c.RealIP(),
		Timestamp: time.Now().UTC(),
	})
}
