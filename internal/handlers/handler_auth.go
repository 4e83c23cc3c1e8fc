package handlers

import (
	"net/http"

	"github.com/SscSPs/bank_app/internal/apperrors"
	portssvc "github.com/SscSPs/bank_app/internal/core/ports/services"
	"github.com/SscSPs/bank_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// authHandler handles registration and login.
type authHandler struct {
	accountService portssvc.AccountSvcFacade
	tokenService   portssvc.TokenSvcFacade
}

func newAuthHandler(as portssvc.AccountSvcFacade, ts portssvc.TokenSvcFacade) *authHandler {
	return &authHandler{accountService: as, tokenService: ts}
}

// registerAuthRoutes sets up the public authentication routes. Both are rate limited per client IP.
func registerAuthRoutes(r *gin.Engine, services *portssvc.ServiceContainer, limit gin.HandlerFunc) {
	h := newAuthHandler(services.Account, services.TokenService)

	auth := r.Group("/auth", limit)
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
	}
}

// register godoc
// @Summary Open a new account
// @Description Creates a user and their bank account with a zero balance.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterAccountRequest true "Registration details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Username already exists"
// @Failure 429 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	var req dto.RegisterAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	account, err := h.accountService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to register account")
		return
	}
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// login godoc
// @Summary User login
// @Description Verifies credentials and returns a JWT access token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx := c.Request.Context()
	ok, err := h.accountService.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		respondError(c, err, "Failed to authenticate")
		return
	}
	if !ok {
		respondError(c, apperrors.ErrInvalidCredentials, "Login rejected")
		return
	}

	account, err := h.accountService.GetAccount(ctx, req.Username)
	if err != nil {
		respondError(c, err, "Failed to load account")
		return
	}
	token, expiresAt, err := h.tokenService.GenerateAccessToken(ctx, account)
	if err != nil {
		respondError(c, err, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		TokenType:   "Bearer",
	})
}
