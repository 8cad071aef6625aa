package models

import "time"

// User represents a registered account.
// Password is stored hashed (bcrypt); never return plain in JSON responses
type User struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"` // Hashed; omitted from JSON
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// RegisterRequest represents the POST /register body
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"` // Plaintext; hashed before storage
}

// LoginRequest for the POST /login API
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginUser is the user summary embedded in a login response
type LoginUser struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// LoginResponse carries the bearer token and the logged-in user
type LoginResponse struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}
