package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fsa_tracker/internal/middleware"
	"fsa_tracker/internal/models"
	"fsa_tracker/internal/repository"
	"fsa_tracker/internal/repository/mocks"
)

func authRouter(users *mocks.Users) *gin.Engine {
	ac := NewAuthController(users)
	r := gin.New()
	r.POST("/auth/signup", ac.Signup)
	r.POST("/auth/login", ac.Login)
	return r
}

func TestSignupIssuesTokenWithSalesPerson(t *testing.T) {
	users := &mocks.Users{}
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "wanjiru@example.com" && u.Role == models.RoleRep && u.SalesPerson == "EMP-9" &&
			bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("s3cretpass")) == nil
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).ID = 9
	}).Return(nil).Once()

	w := do(t, authRouter(users), http.MethodPost, "/auth/signup", "", gin.H{
		"name":         "Wanjiru",
		"email":        "Wanjiru@Example.com",
		"password":     "s3cretpass",
		"sales_person": " EMP-9 ",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode(t, w)
	claims, err := middleware.ValidateToken(body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, uint(9), claims.UserID)
	assert.Equal(t, "EMP-9", claims.SalesPerson)
	assert.NotContains(t, w.Body.String(), "s3cretpass")
	users.AssertExpectations(t)
}

func TestSignupValidation(t *testing.T) {
	users := &mocks.Users{}
	r := authRouter(users)

	cases := map[string]gin.H{
		"admin role":           {"name": "A", "email": "a@example.com", "password": "longenough", "role": "admin"},
		"rep without employee": {"name": "A", "email": "a@example.com", "password": "longenough", "role": "rep"},
		"short password":       {"name": "A", "email": "a@example.com", "password": "short", "sales_person": "E"},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/auth/signup", "", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignupDuplicateEmail(t *testing.T) {
	users := &mocks.Users{}
	users.On("Create", mock.Anything, mock.Anything).Return(repository.ErrConflict)

	w := do(t, authRouter(users), http.MethodPost, "/auth/signup", "", gin.H{
		"name": "S", "email": "sup@example.com", "password": "longenough", "role": "supervisor",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("rightpass"), bcrypt.MinCost)
	require.NoError(t, err)
	teamID := uint(3)
	users := &mocks.Users{}
	users.On("ByEmail", mock.Anything, "otieno@example.com").Return(&models.User{
		Model: gorm.Model{ID: 12}, Email: "otieno@example.com", Password: string(hash),
		Role: models.RoleDriver, SalesPerson: "EMP-12", TeamID: &teamID,
	}, nil)
	users.On("ByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrNotFound)
	r := authRouter(users)

	w := do(t, r, http.MethodPost, "/auth/login", "", gin.H{"email": "Otieno@example.com", "password": "rightpass"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	claims, err := middleware.ValidateToken(decode(t, w)["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, uint(3), claims.TeamID)
	assert.Equal(t, models.RoleDriver, claims.Role)

	w = do(t, r, http.MethodPost, "/auth/login", "", gin.H{"email": "otieno@example.com", "password": "wrongpass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodPost, "/auth/login", "", gin.H{"email": "ghost@example.com", "password": "whatever"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
