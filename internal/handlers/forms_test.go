package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alextreichler/gizmogrid/internal/models"
)

func TestValidateUserDraft(t *testing.T) {
	valid := models.UserDraft{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "pw", Role: models.RoleUser}
	assert.Empty(t, validateUserDraft(valid, false))

	noPassword := valid
	noPassword.Password = ""
	assert.Equal(t, FieldErrors{"password": "Password is required."}, validateUserDraft(noPassword, false))
	assert.Empty(t, validateUserDraft(noPassword, true))

	errs := validateUserDraft(models.UserDraft{Email: "nope", Role: "root"}, false)
	assert.Equal(t, "First name is required.", errs["firstName"])
	assert.Equal(t, "Please enter a valid email address.", errs["email"])
	assert.Equal(t, "Invalid role selected.", errs["role"])
}

func TestValidateProductDraft(t *testing.T) {
	d := models.ProductDraft{ProductName: "Lamp", Description: "Desk lamp", Price: "12.50", ImgURL: "http://x/lamp.png"}
	p, errs := validateProductDraft(d)
	assert.Empty(t, errs)
	assert.Equal(t, 12.5, p.Price)

	d.Price = "twelve"
	_, errs = validateProductDraft(d)
	assert.Equal(t, "Invalid price format.", errs["price"])

	d.Price = "-1"
	_, errs = validateProductDraft(d)
	assert.Equal(t, "Price cannot be negative.", errs["price"])

	// ParseFloat accepts these, but no JSON number can carry them.
	for _, s := range []string{"NaN", "nan", "Inf", "+Inf", "-Infinity", "1e400"} {
		p, errs = validateProductDraft(models.ProductDraft{ProductName: "Lamp", Description: "Desk lamp", Price: s, ImgURL: "http://x/lamp.png"})
		assert.Equal(t, "Invalid price format.", errs["price"], s)
		assert.Zero(t, p.Price, s)
	}

	_, errs = validateProductDraft(models.ProductDraft{})
	assert.Len(t, errs, 4)
}

func TestValidateProfileDraft_PasswordOptional(t *testing.T) {
	assert.Empty(t, validateProfileDraft(models.ProfileDraft{FirstName: "Ada", LastName: "King", Email: "ada@example.com"}))
	assert.Contains(t, validateProfileDraft(models.ProfileDraft{}), "email")
}
