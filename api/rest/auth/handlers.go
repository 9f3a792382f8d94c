package auth

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/markbates/goth/gothic"

	"codeberg.org/lumina/server/internal/auth"
	"codeberg.org/lumina/server/internal/errors"
	"codeberg.org/lumina/server/internal/logger"
	"codeberg.org/lumina/server/lumina/users"
)

// RegisterHandler godoc
// @Summary Register a local account
// @Description Create an account with email and password, sign it in and return the user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration"
// @Success 201 {object} users.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /auth/register [post]
func RegisterHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationFailed(c, err)
			return
		}

		result, err := deps.Accounts.Register(c.Request.Context(), users.RegisterInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
		})

		if err != nil {
			errors.Respond(c, err)
			return
		}

		if !startSession(c, deps, result) {
			return
		}

		c.JSON(http.StatusCreated, result.User)
	}
}

// LoginHandler godoc
// @Summary Sign in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /auth/login [post]
func LoginHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationFailed(c, err)
			return
		}

		result, err := deps.Accounts.Authenticate(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			errors.Respond(c, err)
			return
		}

		if !startSession(c, deps, result) {
			return
		}

		c.JSON(http.StatusOK, LoginResponse{Token: result.Token, User: result.User})
	}
}

// LogoutHandler godoc
// @Summary Sign out
// @Description Deletes the server session and expires the credential cookies
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /auth/logout [post]
func LogoutHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		current, err := deps.Sessions.Load(ctx, c.Request)
		if err == nil {
			err = deps.Sessions.Destroy(ctx, c.Writer, c.Request, current)
		}

		// the cookies are cleared either way
		if err != nil {
			logger.ErrorErr(err, "failed to destroy session", "path", c.Request.URL.Path)
		}

		auth.ClearCredentialCookie(c.Writer, deps.SecureCookies)
		_ = gothic.Logout(c.Writer, c.Request)

		c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
	}
}

// GetCurrentUserHandler godoc
// @Summary Get current user
// @Tags auth
// @Produce json
// @Success 200 {object} users.User
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/me [get]
// @Security BearerAuth
func GetCurrentUserHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		user, err := deps.Accounts.Get(c.Request.Context(), userID)
		if err != nil {
			errors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

// UpdateProfileHandler godoc
// @Summary Update user profile
// @Description Update the current user's name and picture; the session and token are refreshed
// @Tags auth
// @Accept json
// @Produce json
// @Param request body UpdateProfileRequest true "Profile update"
// @Success 200 {object} users.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/me [patch]
// @Security BearerAuth
func UpdateProfileHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		var req UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationFailed(c, err)
			return
		}

		result, err := deps.Accounts.UpdateProfile(c.Request.Context(), userID, req.Name, req.Picture)
		if err != nil {
			errors.Respond(c, err)
			return
		}

		if !startSession(c, deps, result) {
			return
		}

		c.JSON(http.StatusOK, result.User)
	}
}

// UpdatePasswordHandler godoc
// @Summary Change password
// @Description Accounts with a password must send the current one; OAuth accounts may set a first password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body UpdatePasswordRequest true "Password change"
// @Success 200 {object} users.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/update [patch]
// @Security BearerAuth
func UpdatePasswordHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		var req UpdatePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationFailed(c, err)
			return
		}

		result, err := deps.Accounts.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword)
		if err != nil {
			errors.Respond(c, err)
			return
		}

		if !startSession(c, deps, result) {
			return
		}

		c.JSON(http.StatusOK, result.User)
	}
}

// BeginAuthHandler godoc
// @Summary Start OAuth authentication
// @Tags auth
// @Param provider path string true "OAuth provider" Enums(google, github)
// @Success 307 {string} string "Redirect to OAuth provider"
// @Failure 400 {object} errors.ErrorResponse
// @Router /auth/{provider} [get]
func BeginAuthHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		provider := c.Param("provider")

		if !slices.Contains(deps.Providers, provider) {
			errors.BadRequest(c, "invalid provider", nil)
			return
		}

		// gothic reads the provider from the query
		q := c.Request.URL.Query()
		q.Set("provider", provider)
		c.Request.URL.RawQuery = q.Encode()

		gothic.BeginAuthHandler(c.Writer, c.Request)
	}
}

// CallbackHandler godoc
// @Summary OAuth callback
// @Description Completes the provider handshake, finds or creates the user by email and signs it in
// @Tags auth
// @Produce json
// @Param provider path string true "OAuth provider" Enums(google, github)
// @Success 200 {object} users.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/{provider}/callback [get]
func CallbackHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		provider := c.Param("provider")

		if !slices.Contains(deps.Providers, provider) {
			errors.BadRequest(c, "invalid provider", nil)
			return
		}

		q := c.Request.URL.Query()
		q.Set("provider", provider)
		c.Request.URL.RawQuery = q.Encode()

		gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request)
		if err != nil {
			logger.Warn("oauth handshake failed", "provider", provider, "error", err)
			errors.Unauthorized(c, "authentication failed")
			return
		}

		result, err := deps.Accounts.SignInWithProfile(c.Request.Context(), provider, users.Profile{
			Email:   gothUser.Email,
			Name:    gothUser.Name,
			Picture: gothUser.AvatarURL,
		})

		if err != nil {
			errors.Respond(c, err)
			return
		}

		if !startSession(c, deps, result) {
			return
		}

		c.JSON(http.StatusOK, result.User)
	}
}

// sets the token cookie and writes the user's snapshot into a new session,
// retiring whatever session the request arrived with. Responds and returns
// false on failure
func startSession(c *gin.Context, deps Deps, result *users.SignIn) bool {
	ctx := c.Request.Context()

	// guarded routes already loaded the session
	current := auth.GetSession(c)
	if current == nil {
		var err error
		if current, err = deps.Sessions.Load(ctx, c.Request); err != nil {
			errors.InternalError(c, "failed to start session", err)
			return false
		}
	}

	if _, err := deps.Sessions.Rotate(ctx, c.Writer, c.Request, current, result.User.Identity()); err != nil {
		errors.InternalError(c, "failed to start session", err)
		return false
	}

	auth.SetCredentialCookie(c.Writer, result.Token, deps.SecureCookies)
	return true
}
