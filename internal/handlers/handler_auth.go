package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ulule/limiter/v3"
	limitergin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/mobilebank/ledger_backend/internal/apperrors"
	portssvc "github.com/mobilebank/ledger_backend/internal/core/ports/services"
	"github.com/mobilebank/ledger_backend/internal/dto"
	"github.com/mobilebank/ledger_backend/internal/middleware"
	"github.com/mobilebank/ledger_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthHandler handles authentication related requests.
type AuthHandler struct {
	accountService portssvc.AccountSvcFacade
	jwtSecret      string
	jwtDuration    time.Duration
	jwtIssuer      string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as portssvc.AccountSvcFacade, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		accountService: as,
		jwtSecret:      cfg.JWTSecret,
		jwtDuration:    cfg.JWTExpiryDuration,
		jwtIssuer:      cfg.JWTIssuer,
	}
}

// registerAuthRoutes sets up the routes for authentication.
func registerAuthRoutes(rg *gin.Engine, cfg *config.Config, accountService portssvc.AccountSvcFacade) {
	h := NewAuthHandler(accountService, cfg)

	// Rate limit login attempts: 5 per minute per client IP.
	rate, _ := limiter.NewRateFromFormatted("5-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)
	limitMiddleware := limitergin.NewMiddleware(ipLimiter)

	auth := rg.Group("/api/v1/auth")
	{
		auth.POST("/login", limitMiddleware, h.Login)
		auth.POST("/register", h.Register)
	}
}

// Register godoc
// @Summary Register new account
// @Description Opens a new account with the fixed initial grant.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "Account Registration Info"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Username already taken"
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	account, err := h.accountService.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Username already taken"})
			return
		}
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to register account", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to register account"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// Login godoc
// @Summary Account login
// @Description Authenticates an account and returns a JWT token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	account, err := h.accountService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid username or password"})
			return
		}
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Login failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to log in"})
		return
	}

	claims := jwt.RegisteredClaims{
		Issuer:    h.jwtIssuer,
		Subject:   account.AccountID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(h.jwtDuration)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		NotBefore: jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to sign JWT token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{Token: signed})
}
