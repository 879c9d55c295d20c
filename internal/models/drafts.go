package models

import "strconv"

// Form buffers. Every field is declared up front and defaults to "".

type UserDraft struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	Role      string `json:"role"`
}

// UserDraftFrom pre-fills an edit form. The password is never echoed back.
func UserDraftFrom(u User) UserDraft {
	return UserDraft{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
	}
}

// ProductDraft keeps Price as typed text so an invalid entry can be re-rendered.
type ProductDraft struct {
	ProductName string
	Description string
	Price       string
	ImgURL      string
}

func ProductDraftFrom(p Product) ProductDraft {
	return ProductDraft{
		ProductName: p.ProductName,
		Description: p.Description,
		Price:       strconv.FormatFloat(p.Price, 'f', -1, 64),
		ImgURL:      p.ImgURL,
	}
}

// ProfileDraft is the self-service profile form. An empty Password is omitted.
type ProfileDraft struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
}

type RegisterDraft struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}
