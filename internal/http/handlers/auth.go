package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	intconfig "busline/internal/config"
	"busline/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

var jwtSecret = "super-secret-key-change-me"

// SetJWTSecret overrides the signing secret at startup.
func SetJWTSecret(secret string) {
	if strings.TrimSpace(secret) != "" {
		jwtSecret = secret
	}
}

// AuthUser is the user payload inside auth responses.
type AuthUser struct {
	ID        int64  `json:"id"`
	CompanyID int64  `json:"companyId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	var (
		user         AuthUser
		passwordHash string
	)
	err := intconfig.DB.QueryRow(`
		SELECT id, company_id, name, email, password_hash, role
		FROM users
		WHERE email = ?
	`, req.Email).Scan(&user.ID, &user.CompanyID, &user.Name, &user.Email, &passwordHash, &user.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(c, http.StatusUnauthorized, "invalid_credentials", "wrong email or password", nil)
		} else {
			respondError(c, http.StatusInternalServerError, "user_query_failed", "user lookup failed", err)
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "invalid_credentials", "wrong email or password", nil)
		return
	}

	token, err := middleware.SignCompanyToken(jwtSecret, user.ID, user.CompanyID, user.Role)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "token_failed", "token signing failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

type registerRequest struct {
	CompanyName string `json:"companyName" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
}

// POST /api/auth/register creates a company and its first operator user.
func Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	var exists int
	if err := intconfig.DB.QueryRow(`SELECT COUNT(*) FROM users WHERE email = ?`, req.Email).Scan(&exists); err != nil {
		respondError(c, http.StatusInternalServerError, "user_check_failed", "user lookup failed", err)
		return
	}
	if exists > 0 {
		respondError(c, http.StatusBadRequest, "email_taken", "email already registered", nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "hash_failed", "password hashing failed", err)
		return
	}

	companyRes, err := intconfig.DB.Exec(`INSERT INTO companies (name) VALUES (?)`, strings.TrimSpace(req.CompanyName))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "company_create_failed", "company creation failed", err)
		return
	}
	companyID, _ := companyRes.LastInsertId()

	userRes, err := intconfig.DB.Exec(`
		INSERT INTO users (company_id, name, email, password_hash, role)
		VALUES (?, ?, ?, ?, 'operator')
	`, companyID, strings.TrimSpace(req.Name), req.Email, string(hash))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "user_create_failed", "user creation failed", err)
		return
	}
	userID, _ := userRes.LastInsertId()

	c.JSON(http.StatusCreated, gin.H{
		"message": "registered",
		"user": AuthUser{
			ID:        userID,
			CompanyID: companyID,
			Name:      req.Name,
			Email:     req.Email,
			Role:      "operator",
		},
	})
}
