package handlers

import (
	"net/http"
	"net/mail"
	"strings"
	"time"

	"eventwave/internal/domain"
	"eventwave/internal/domain/models"
	"eventwave/internal/http/middleware"
	"eventwave/internal/repositories"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var jwtSecret = []byte("change-me-in-production")

// SetAuthSecret installs the JWT signing key from configuration.
func SetAuthSecret(secret []byte) {
	if len(secret) > 0 {
		jwtSecret = secret
	}
}

// AuthUser is the user payload returned by auth endpoints.
type AuthUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	Status    string `json:"status"`
}

func authUserFrom(u models.User) AuthUser {
	return AuthUser{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		Status:    u.Status,
	}
}

func signToken(u models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": u.ID,
		"role":    u.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})
	return token.SignedString(jwtSecret)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/v1/user/login
func Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	repo := repositories.UserRepository{}
	user, hash, err := repo.GetByEmail(strings.TrimSpace(req.Email))
	if err != nil {
		if domain.IsNotFound(err) {
			respondError(c, http.StatusUnauthorized, "invalid_credentials", "email or password is incorrect", nil)
			return
		}
		RespondDomainError(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "invalid_credentials", "email or password is incorrect", nil)
		return
	}

	tokenString, err := signToken(user)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
		"user":  authUserFrom(user),
	})
}

type registerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
}

func (r registerRequest) validate() domain.FieldErrors {
	errs := domain.FieldErrors{}
	if strings.TrimSpace(r.FirstName) == "" {
		errs["first_name"] = "first name is required"
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(r.Email)); err != nil {
		errs["email"] = "a valid email is required"
	}
	if len(r.Password) < 8 {
		errs["password"] = "password must be at least 8 characters"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// POST /api/v1/user/register
func Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if errs := req.validate(); errs != nil {
		RespondDomainError(c, errs)
		return
	}

	repo := repositories.UserRepository{}
	email := strings.TrimSpace(req.Email)

	exists, err := repo.EmailExists(email)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if exists {
		RespondDomainError(c, domain.ConflictError{Msg: "email is already registered"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal_error", "failed to hash password", nil)
		return
	}

	user := models.User{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     email,
		Phone:     strings.TrimSpace(req.Phone),
		Role:      "user",
		Status:    "active",
	}

	id, err := repo.Create(user, string(hash))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	user.ID = id

	c.JSON(http.StatusCreated, gin.H{
		"message": "registration successful",
		"user":    authUserFrom(user),
	})
}

// GET /api/v1/user/current-user
func CurrentUser(c *gin.Context) {
	id := middleware.GetUserID(c)
	if id == 0 {
		respondError(c, http.StatusUnauthorized, "unauthorized", "authentication required", nil)
		return
	}

	repo := repositories.UserRepository{}
	user, err := repo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": authUserFrom(user)})
}
