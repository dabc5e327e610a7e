package controllers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/lakshya189/sonicart-api/initializers"
	"github.com/lakshya189/sonicart-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRegisterCreatesAccount(t *testing.T) {
	body := models.RegisterData{
		Name:     "New Shopper",
		Email:    "new-shopper@example.com",
		Password: "longenoughpassword",
	}

	recorder := perform(t, Register, http.MethodPost, "/api/auth/register", body)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var user models.User
	require.NoError(t, initializers.DB.Where("email = ?", body.Email).First(&user).Error)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, body.Password, user.Password, "password must be stored hashed")
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	existing := seedUser(t)

	body := models.RegisterData{
		Name:     "Impostor",
		Email:    existing.Email,
		Password: "longenoughpassword",
	}

	recorder := perform(t, Register, http.MethodPost, "/api/auth/register", body)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, msgUserAlreadyExists, responseMessage(t, recorder))
}

// The exists check can race with a concurrent registration; the unique index
// must surface as gorm.ErrDuplicatedKey so the handler can map it to a 400.
func TestDuplicateEmailInsertTranslates(t *testing.T) {
	existing := seedUser(t)

	err := initializers.DB.Create(&models.User{
		Name:     "Impostor",
		Email:    existing.Email,
		Password: "x",
		Role:     models.RoleUser,
		IsActive: true,
	}).Error
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}
