package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"transitpay/internal/domain"
	"transitpay/internal/domain/models"
	"transitpay/internal/http/middleware"
	"transitpay/internal/repositories"
	"transitpay/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Register creates a customer account.
func Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	if req.Email == "" || req.Username == "" {
		RespondError(c, http.StatusBadRequest, "email and username are required", nil)
		return
	}
	if len(req.Password) < 8 {
		RespondError(c, http.StatusBadRequest, "password must be at least 8 characters", nil)
		return
	}

	users := repositories.UserRepository{}
	taken, err := users.ExistsByEmailOrUsername(req.Email, req.Username)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if taken {
		RespondDomainError(c, domain.ConflictError{Resource: "user", Msg: "email or username already registered"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		RespondDomainError(c, domain.InternalError{Msg: "failed to hash password", Err: err})
		return
	}

	u := models.User{
		Name:         utils.NormalizeSpace(req.Name),
		Username:     req.Username,
		Email:        req.Email,
		Phone:        utils.NormalizePhone(req.Phone),
		PasswordHash: string(hash),
		Role:         "customer",
		Status:       "active",
	}
	id, err := users.Create(u)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	u.ID = id

	utils.LogEvent(middleware.GetRequestID(c), "auth", "register", "user_id="+strconv.FormatInt(id, 10))
	c.JSON(http.StatusCreated, gin.H{"message": "registered", "user": u.ToPublic()})
}

type loginRequest struct {
	Login    string `json:"login"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks credentials and issues an HS256 JWT carrying user_id and role.
func Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	login := strings.ToLower(strings.TrimSpace(req.Login))
	if login == "" {
		login = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if login == "" || req.Password == "" {
		RespondError(c, http.StatusBadRequest, "login and password are required", nil)
		return
	}

	user, err := (repositories.UserRepository{}).GetByLogin(login)
	if err != nil {
		if domain.IsNotFound(err) {
			RespondError(c, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		RespondDomainError(c, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		RespondError(c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"iat":     now.Unix(),
		"exp":     now.Add(tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(deps().Env.JWTSecret))
	if err != nil {
		RespondDomainError(c, domain.InternalError{Msg: "failed to sign token", Err: err})
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "auth", "login", "user_id="+strconv.FormatInt(user.ID, 10))
	c.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"token":   token,
		"user":    user.ToPublic(),
	})
}

// Me returns the authenticated user's profile with wallet balance.
func Me(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID <= 0 {
		RespondError(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	user, err := (repositories.UserRepository{}).GetByID(userID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.ToPublic()})
}
