package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/taskboard/internal/models"
	"github.com/adanyl0v/taskboard/internal/services"
)

const tokenCookie = "token"

type loginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=255"`
}

func (h *handlerImpl) HandleLogin(c *gin.Context) {
	var req loginRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBindError(err))
		return
	}
	h.logger.Info().
		Str("email", req.Email).
		Msg("login request")

	user, err := h.users.Authenticate(c, req.Email, req.Password)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to login")
		if errors.Is(err, services.ErrUserNotFound) {
			abort(c, newNotFoundError("User does not exist. Please register."))
			return
		}
		abort(c, newServiceError(err))
		return
	}

	issued, err := h.tokens.Issue(user.ID, user.Email)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to issue token")
		abort(c, newServiceError(err))
		return
	}

	h.setTokenCookie(c, issued.Token, time.Until(issued.ExpiresAt))
	c.JSON(http.StatusOK, envelope{
		Success: true,
		Message: "Login successful",
	})
}

type signupRequest struct {
	Username string `json:"username" binding:"required,max=64"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=255"`
}

func (h *handlerImpl) HandleSignup(c *gin.Context) {
	var req signupRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBindError(err))
		return
	}
	h.logger.Info().
		Str("username", req.Username).
		Str("email", req.Email).
		Msg("signup request")

	user, err := h.users.Register(c, services.RegisterParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to register user")
		abort(c, newServiceError(err))
		return
	}

	// A failed delivery leaves the account usable and unverified.
	err = h.verifications.SendCode(c, user)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to send verification code")
	}

	c.JSON(http.StatusCreated, envelope{
		Success: true,
		Message: "User registered successfully",
	})
}

func (h *handlerImpl) HandleLogout(c *gin.Context) {
	tokenID, _ := getStringFromContext(c, tokenIDCtxKey)
	value, _ := c.Get(tokenExpiresAtCtxKey)
	expiresAt, _ := value.(time.Time)

	err := h.revocations.Revoke(c, tokenID, expiresAt)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to logout")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	h.clearTokenCookie(c)
	c.JSON(http.StatusOK, envelope{
		Success: true,
		Message: "Logout successful",
	})
}

func (h *handlerImpl) HandleVerifyEmail(c *gin.Context) {
	userID, err := h.verifications.Redeem(c, c.Query("code"))
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to verify email")
		abort(c, newServiceError(err))
		return
	}

	h.logger.Info().
		Str("user_id", userID).
		Msg("verified email")
	c.JSON(http.StatusOK, envelope{
		Success: true,
		Message: "Email verified successfully",
	})
}

type userResponse struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	IsVerified bool      `json:"isVerified"`
	Tasks      []string  `json:"tasks"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func newUserResponse(user *models.User) userResponse {
	tasks := user.TaskIDs
	if tasks == nil {
		tasks = []string{}
	}
	return userResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		IsVerified: user.IsVerified,
		Tasks:      tasks,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}

func (h *handlerImpl) HandleGetUserData(c *gin.Context) {
	userID, ok := h.mustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.users.GetUserByID(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get user")
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusOK, envelope{
		Success: true,
		Message: "User found",
		Data:    newUserResponse(user),
	})
}

func (h *handlerImpl) setTokenCookie(c *gin.Context, token string, maxAge time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenCookie, token, int(maxAge.Seconds()),
		"/", "", h.secureCookie, true)
}

func (h *handlerImpl) clearTokenCookie(c *gin.Context) {
	c.SetCookie(tokenCookie, "", -1,
		"/", "", h.secureCookie, true)
}
