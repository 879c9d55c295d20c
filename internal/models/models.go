package models

// Roles understood by the API.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Order statuses. Pending is capitalised on the wire, the others are not.
const (
	OrderPending   = "Pending"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

type User struct {
	ID        string `json:"_id,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"` // write-only
	Role      string `json:"role,omitempty"`
	Token     string `json:"token,omitempty"`
	// Login responses carry "id" rather than "_id".
	AltID string `json:"id,omitempty"`
}

// UserID returns whichever identifier the API sent.
func (u User) UserID() string {
	if u.ID != "" {
		return u.ID
	}
	return u.AltID
}

// LoggedIn reports whether the user carries a session token.
func (u User) LoggedIn() bool { return u.Token != "" }

func (u User) IsAdmin() bool { return u.LoggedIn() && u.Role == RoleAdmin }

type Product struct {
	ID          string  `json:"_id,omitempty"`
	ProductName string  `json:"productName"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImgURL      string  `json:"imgUrl"`
}

// CartItem is a product snapshot plus the quantity chosen by the shopper.
type CartItem struct {
	Product
	Qty int `json:"qty"`
}

type Order struct {
	ID         string     `json:"_id,omitempty"`
	UserID     string     `json:"userId"`
	Email      string     `json:"email"`
	OrderValue float64    `json:"orderValue"`
	Items      []CartItem `json:"items"`
	Status     string     `json:"status,omitempty"`
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Counts returned by the public stats endpoints.
type UserCount struct {
	TotalUsers int `json:"totalUsers"`
}

type OrderCount struct {
	TotalOrders int `json:"totalOrders"`
}

// Paged list envelopes. Total is the number of pages, not records.
type ProductPage struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}

type UserPage struct {
	Users []User `json:"users"`
	Total int    `json:"total"`
}

type OrderPage struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
}
