package handlers

import (
	"math"
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	"github.com/alextreichler/gizmogrid/internal/models"
)

// FieldErrors maps a form field name to its validation message.
type FieldErrors map[string]string

func (fe FieldErrors) required(field, label, value string) {
	if value == "" {
		fe[field] = label + " is required."
	}
}

func (fe FieldErrors) email(field, value string) {
	if value == "" || fe[field] != "" {
		return
	}
	if _, err := mail.ParseAddress(value); err != nil {
		fe[field] = "Please enter a valid email address."
	}
}

func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

func userDraftFromForm(r *http.Request) models.UserDraft {
	return models.UserDraft{
		FirstName: formValue(r, "firstName"),
		LastName:  formValue(r, "lastName"),
		Email:     formValue(r, "email"),
		Password:  r.FormValue("password"),
		Role:      formValue(r, "role"),
	}
}

// validateUserDraft checks a user form. When editing, an empty password keeps
// the current one.
func validateUserDraft(d models.UserDraft, editing bool) FieldErrors {
	errs := FieldErrors{}
	errs.required("firstName", "First name", d.FirstName)
	errs.required("lastName", "Last name", d.LastName)
	errs.required("email", "Email", d.Email)
	errs.email("email", d.Email)
	if !editing {
		errs.required("password", "Password", d.Password)
	}
	errs.required("role", "Role", d.Role)
	if d.Role != "" && d.Role != models.RoleUser && d.Role != models.RoleAdmin {
		errs["role"] = "Invalid role selected."
	}
	return errs
}

func productDraftFromForm(r *http.Request) models.ProductDraft {
	return models.ProductDraft{
		ProductName: formValue(r, "productName"),
		Description: formValue(r, "description"),
		Price:       formValue(r, "price"),
		ImgURL:      formValue(r, "imgUrl"),
	}
}

// validateProductDraft also returns the product to send when the draft is valid.
func validateProductDraft(d models.ProductDraft) (models.Product, FieldErrors) {
	errs := FieldErrors{}
	errs.required("productName", "Product name", d.ProductName)
	errs.required("description", "Description", d.Description)
	errs.required("price", "Price", d.Price)
	errs.required("imgUrl", "Image URL", d.ImgURL)

	var price float64
	if d.Price != "" {
		p, err := strconv.ParseFloat(d.Price, 64)
		if err != nil || math.IsNaN(p) || math.IsInf(p, 0) {
			errs["price"] = "Invalid price format."
			p = 0
		} else if p < 0 {
			errs["price"] = "Price cannot be negative."
		}
		price = p
	}

	return models.Product{
		ProductName: d.ProductName,
		Description: d.Description,
		Price:       price,
		ImgURL:      d.ImgURL,
	}, errs
}

func profileDraftFromForm(r *http.Request) models.ProfileDraft {
	return models.ProfileDraft{
		FirstName: formValue(r, "firstName"),
		LastName:  formValue(r, "lastName"),
		Email:     formValue(r, "email"),
		Password:  r.FormValue("password"),
	}
}

func validateProfileDraft(d models.ProfileDraft) FieldErrors {
	errs := FieldErrors{}
	errs.required("firstName", "First name", d.FirstName)
	errs.required("lastName", "Last name", d.LastName)
	errs.required("email", "Email", d.Email)
	errs.email("email", d.Email)
	return errs
}

func registerDraftFromForm(r *http.Request) models.RegisterDraft {
	return models.RegisterDraft{
		FirstName: formValue(r, "firstName"),
		LastName:  formValue(r, "lastName"),
		Email:     formValue(r, "email"),
		Password:  r.FormValue("password"),
	}
}

func validateRegisterDraft(d models.RegisterDraft) FieldErrors {
	errs := FieldErrors{}
	errs.required("firstName", "First name", d.FirstName)
	errs.required("lastName", "Last name", d.LastName)
	errs.required("email", "Email", d.Email)
	errs.email("email", d.Email)
	errs.required("password", "Password", d.Password)
	return errs
}
