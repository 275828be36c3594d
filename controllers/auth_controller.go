package controllers

import (
	"net/http"

	"absensi/constants"
	"absensi/dto"
	apperrors "absensi/errors"
	"absensi/middleware"
	"absensi/models"
	"absensi/response"
	"absensi/services"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	service      *services.AuthService
	tokenTTL     int
	secureCookie bool
}

func NewAuthController(service *services.AuthService, tokens *services.TokenManager, secureCookie bool) *AuthController {
	return &AuthController{
		service:      service,
		tokenTTL:     int(tokens.TTL().Seconds()),
		secureCookie: secureCookie,
	}
}

// Register godoc
// @Summary      Daftar akun
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterInput  true  "Account"
// @Success      200  {object}  response.Response{data=dto.UserResponse}
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /auth/register [post]
func (a *AuthController) Register(c *gin.Context) {
	var input dto.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperrors.NewAppError(apperrors.ErrCodeValidation, "Data tidak valid", err))
		return
	}
	user, err := a.service.Register(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, toUserResponse(user))
}

// Login godoc
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginInput  true  "Credentials"
// @Success      200  {object}  response.Response{data=dto.LoginResponse}
// @Failure      400  {object}  response.Response
// @Router       /auth/login [post]
func (a *AuthController) Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperrors.Validation("Email dan password wajib diisi"))
		return
	}
	user, token, err := a.service.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		c.Error(err)
		return
	}
	a.respondWithToken(c, user, token)
}

// AuthGoogle godoc
// @Summary      Login dengan Google
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GoogleLoginInput  true  "Google ID token"
// @Success      200  {object}  response.Response{data=dto.LoginResponse}
// @Failure      401  {object}  response.Response
// @Router       /auth/google [post]
func (a *AuthController) AuthGoogle(c *gin.Context) {
	var input dto.GoogleLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperrors.Validation("idToken wajib diisi"))
		return
	}
	user, token, err := a.service.LoginWithGoogle(c.Request.Context(), input.IDToken)
	if err != nil {
		c.Error(err)
		return
	}
	a.respondWithToken(c, user, token)
}

// Logout godoc
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /auth/logout [delete]
func (a *AuthController) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", a.secureCookie, true)
	response.Success(c, nil)
}

// Me godoc
// @Summary      Profil pengguna saat ini
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=dto.UserResponse}
// @Failure      401  {object}  response.Response
// @Security     BearerAuth
// @Router       /auth/me [get]
func (a *AuthController) Me(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)
	user, err := a.service.Me(c.Request.Context(), identity.UserID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, toUserResponse(user))
}

func (a *AuthController) respondWithToken(c *gin.Context, user *models.User, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, token, a.tokenTTL, "/", "", a.secureCookie, true)
	response.Success(c, dto.LoginResponse{
		AccessToken: token,
		User:        toUserResponse(user),
	})
}

func toUserResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Avatar:    user.Avatar,
		Role:      constants.RoleName(user.Role),
		CreatedAt: user.CreatedAt,
	}
}
