// Package auth handles account registration, login and logout with JWT access tokens
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"CampusHire-backend/internal/database"
	"CampusHire-backend/internal/model"
	"CampusHire-backend/internal/utilities"
)

const authTypeLocal = "Local"

// LocalAuthHandler holds DB reference for handler methods.
type LocalAuthHandler struct {
	DB       *database.DBinstanceStruct
	Tokens   *TokenManager
	Attempts *AttemptLogger
}

// NewLocalAuthHandler creates a new instance of LocalAuthHandler
func NewLocalAuthHandler(db *database.DBinstanceStruct, tokens *TokenManager, attempts *AttemptLogger) *LocalAuthHandler {
	return &LocalAuthHandler{
		DB:       db,
		Tokens:   tokens,
		Attempts: attempts,
	}
}

type registerInfo struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Role        string `json:"role" binding:"required,oneof=college student"`
	CollegeName string `json:"college_name"`
}

type loginInfo struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=college student"`
}

// LocalRegisterHandler creates a college or student account and returns an access token
// @Summary Register with email and password
// @Description Email must not already exist and password must be at least 8 characters long. Students must provide college_name.
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body registerInfo true "role can be only 'college' or 'student'"
// @Success 201 {object} model.UserResponse
// @Failure 400 {object} utilities.ErrorResponse "Info provided not met the condition"
// @Failure 500 {object} utilities.ErrorResponse "Database or password hashing error"
// @Router /auth/register [post]
func (lh *LocalAuthHandler) LocalRegisterHandler(c *gin.Context) {
	var info registerInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Email, password, name, and role (only 'college' or 'student') must be provided",
		})
		return
	}

	info.Email = model.NormalizeEmail(info.Email)
	info.Name = strings.TrimSpace(info.Name)
	info.CollegeName = strings.TrimSpace(info.CollegeName)

	if model.Role(info.Role) == model.RoleStudent && info.CollegeName == "" {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Students must provide college_name"})
		return
	}

	if len(info.Password) < 8 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Password should longer or equal to 8 characters",
		})
		return
	}

	var existing model.User
	err := lh.DB.Where("email = ?", info.Email).First(&existing).Error

	switch {
	case err == nil:
		lh.Attempts.LogAuthAttempt(logrus.InfoLevel, authTypeLocal, StatusFail, info.Email, "register: email already exist")
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Email already exist",
		})
		return

	case errors.Is(err, gorm.ErrRecordNotFound):
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	hashedPassword, err := utilities.HashPassword(info.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed hash password: %s", err.Error()),
		})
		return
	}

	user := model.User{
		Email:       info.Email,
		Name:        info.Name,
		Role:        model.Role(info.Role),
		CollegeName: info.CollegeName,
		Password:    hashedPassword,
	}
	if err := lh.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Email already exist"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create user: %s", err.Error()),
		})
		return
	}

	lh.respondWithToken(c, http.StatusCreated, user)
	lh.Attempts.LogAuthAttempt(logrus.InfoLevel, authTypeLocal, StatusSuccess, user.Email, "register")
}

// LocalLoginHandler checks email and password and returns an access token.
// When role is given it must match the account role.
// @Summary Login with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body loginInfo true "role is optional"
// @Success 200 {object} model.UserResponse
// @Failure 400 {object} utilities.ErrorResponse "Email or password is not provided"
// @Failure 401 {object} utilities.ErrorResponse "Email or password is incorrect"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/login [post]
func (lh *LocalAuthHandler) LocalLoginHandler(c *gin.Context) {
	var info loginInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Email or password is not provided",
		})
		return
	}
	email := model.NormalizeEmail(info.Email)

	var user model.User
	err := lh.DB.Where("email = ?", email).First(&user).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		lh.Attempts.LogAuthAttempt(logrus.WarnLevel, authTypeLocal, StatusFail, email, "unknown email")
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Email or password is incorrect",
		})
		return

	case err == nil:
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	if user.Password == "" || !utilities.VerifyPassword(info.Password, user.Password) {
		lh.Attempts.LogAuthAttempt(logrus.WarnLevel, authTypeLocal, StatusFail, email, "wrong password")
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Email or password is incorrect",
		})
		return
	}

	if info.Role != "" && model.Role(info.Role) != user.Role {
		lh.Attempts.LogAuthAttempt(logrus.WarnLevel, authTypeLocal, StatusFail, email, "role mismatch")
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Email or password is incorrect",
		})
		return
	}

	lh.respondWithToken(c, http.StatusOK, user)
	lh.Attempts.LogAuthAttempt(logrus.InfoLevel, authTypeLocal, StatusSuccess, email, "login")
}

func (lh *LocalAuthHandler) respondWithToken(c *gin.Context, status int, user model.User) {
	accessToken, err := lh.Tokens.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	resp := model.UserResponse{User: user}
	resp.SetAccessToken(accessToken)
	c.JSON(status, resp)
}

// MeHandler returns the authenticated user
// @Summary Current user
// @Tags Auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} model.User
// @Failure 401 {object} utilities.ErrorResponse
// @Router /auth/me [get]
func MeHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}
