package handler

import (
	"net/http"

	"immo/backend/internal/auth"
	"immo/backend/internal/models"
	"immo/backend/internal/store"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// RegisterInput defines the structure for sign-up.
type RegisterInput struct {
	Nom       string      `json:"nom" binding:"required" example:"Awa Ndiaye"`
	Email     string      `json:"email" binding:"required,email" example:"awa@example.com"`
	Password  string      `json:"password" binding:"required,min=8" example:"password123"`
	Telephone *string     `json:"telephone" example:"+221770000000"`
	Role      models.Role `json:"role" binding:"omitempty,oneof=client courtier" example:"client"`
}

// LoginInput defines the structure for password sign-in.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email" example:"awa@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// SendCodeInput asks for a fresh one-time code.
type SendCodeInput struct {
	Email   string             `json:"email" binding:"required,email" example:"awa@example.com"`
	Purpose models.CodePurpose `json:"purpose" binding:"omitempty,oneof=signup recovery" example:"signup"`
}

// VerifyCodeInput consumes a one-time code.
type VerifyCodeInput struct {
	Email   string             `json:"email" binding:"required,email" example:"awa@example.com"`
	Code    string             `json:"code" binding:"required,len=6" example:"123456"`
	Purpose models.CodePurpose `json:"purpose" binding:"omitempty,oneof=signup recovery" example:"signup"`
}

// PasswordInput replaces the caller's password.
type PasswordInput struct {
	Password string `json:"password" binding:"required,min=8" example:"new-password"`
}

// SessionResponse is returned on sign-in.
type SessionResponse struct {
	Token string            `json:"token"`
	User  store.ProfileView `json:"user"`
}

// endregion

func purposeOrDefault(p models.CodePurpose) models.CodePurpose {
	if p == "" {
		return models.CodeSignup
	}
	return p
}

func sessionResponse(c *gin.Context, token string, s *auth.Session) {
	profile, err := stores().Profiles.Get(c.Request.Context(), s.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{Token: token, User: *profile})
}

// Register godoc
// @Summary      Register a new profile
// @Description  Creates a client or courtier profile and emails a sign-up code.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  store.ProfileView
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Email already registered"
// @Router       /auth/register [post]
func Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := authService().SignUp(c.Request.Context(), auth.SignUpInput{
		Nom:       input.Nom,
		Email:     input.Email,
		Password:  input.Password,
		Telephone: input.Telephone,
		Role:      input.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := stores().Profiles.Get(c.Request.Context(), profile.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// Login godoc
// @Summary      Sign in
// @Description  Checks the password of a verified profile and returns a token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  SessionResponse
// @Failure      401  {object}  ErrorResponse "Invalid credentials"
// @Failure      403  {object}  ErrorResponse "Email not verified"
// @Router       /auth/login [post]
func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, s, err := authService().SignIn(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	sessionResponse(c, token, s)
}

// Logout godoc
// @Summary      Sign out
// @Description  Revokes the bearer token used for this request.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  MessageResponse
// @Router       /auth/logout [post]
func Logout(c *gin.Context) {
	if err := authService().SignOut(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

// SendCode godoc
// @Summary      Send a one-time code
// @Description  Emails a fresh code. Unknown addresses get the same answer.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body SendCodeInput true "Email and purpose"
// @Success      202  {object}  MessageResponse
// @Router       /auth/otp [post]
func SendCode(c *gin.Context) {
	var input SendCodeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := authService().SendCode(c.Request.Context(), input.Email, purposeOrDefault(input.Purpose)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "If the address exists, a code was sent"})
}

// VerifyCode godoc
// @Summary      Verify a one-time code
// @Description  Consumes the code, verifies the email for sign-up codes and returns a token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body VerifyCodeInput true "Code"
// @Success      200  {object}  SessionResponse
// @Failure      401  {object}  ErrorResponse "Invalid or expired code"
// @Router       /auth/verify [post]
func VerifyCode(c *gin.Context) {
	var input VerifyCodeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, s, err := authService().VerifyCode(c.Request.Context(), input.Email, input.Code, purposeOrDefault(input.Purpose))
	if err != nil {
		respondError(c, err)
		return
	}
	sessionResponse(c, token, s)
}

// UpdatePassword godoc
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body PasswordInput true "New password"
// @Success      200  {object}  MessageResponse
// @Router       /auth/password [put]
func UpdatePassword(c *gin.Context) {
	var input PasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := authService().UpdatePassword(c.Request.Context(), input.Password); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

// GetMe godoc
// @Summary      Get my profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  store.ProfileView
// @Router       /auth/me [get]
func GetMe(c *gin.Context) {
	profile, err := authService().CurrentUser(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := stores().Profiles.Get(c.Request.Context(), profile.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
