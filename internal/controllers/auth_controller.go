package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"fsa_tracker/internal/middleware"
	"fsa_tracker/internal/models"
	"fsa_tracker/internal/repository"
)

type AuthController struct {
	users repository.Users
}

func NewAuthController(users repository.Users) *AuthController {
	return &AuthController{users: users}
}

type signupInput struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	Phone       string `json:"phone"`
	Role        string `json:"role"`
	SalesPerson string `json:"sales_person"`
	TeamID      *uint  `json:"team_id"`
}

func (ac *AuthController) Signup(c *gin.Context) {
	var input signupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := validateAndNormalizeRole(input.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if (role == models.RoleRep || role == models.RoleDriver) && strings.TrimSpace(input.SalesPerson) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sales_person is required for " + role + " role"})
		return
	}

	hashedPassword, err := hashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}

	user := models.User{
		Name:        input.Name,
		Email:       strings.ToLower(input.Email),
		Password:    hashedPassword,
		Phone:       input.Phone,
		Role:        role,
		SalesPerson: strings.TrimSpace(input.SalesPerson),
		TeamID:      input.TeamID,
	}
	if err := ac.users.Create(c.Request.Context(), &user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already in use"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user: " + err.Error()})
		return
	}

	token, err := issueToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  prepareUserResponse(user),
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ac.users.ByEmail(c.Request.Context(), strings.ToLower(body.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found or invalid credentials"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect password"})
		return
	}

	token, err := issueToken(*user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  prepareUserResponse(*user),
	})
}

func validateAndNormalizeRole(roleInput string) (string, error) {
	role := strings.ToLower(strings.TrimSpace(roleInput))
	if role == "" {
		role = models.RoleRep
	}
	switch role {
	case models.RoleRep, models.RoleDriver, models.RoleSupervisor:
		return role, nil
	default:
		return "", errors.New("invalid role")
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func issueToken(u models.User) (string, error) {
	claims := middleware.Claims{UserID: u.ID, Role: u.Role, SalesPerson: u.SalesPerson}
	if u.TeamID != nil {
		claims.TeamID = *u.TeamID
	}
	return middleware.GenerateToken(claims)
}

func prepareUserResponse(user models.User) gin.H {
	responseUser := gin.H{
		"ID":           user.ID,
		"CreatedAt":    user.CreatedAt,
		"UpdatedAt":    user.UpdatedAt,
		"name":         user.Name,
		"email":        user.Email,
		"phone":        user.Phone,
		"role":         user.Role,
		"sales_person": user.SalesPerson,
	}
	if user.TeamID != nil {
		responseUser["team_id"] = *user.TeamID
	}
	return responseUser
}
