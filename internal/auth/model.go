// User model definition
package auth

import "time"

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest changes the display name and preferred reciter.
type UpdateProfileRequest struct {
	UserName string `json:"user_name"`
	Reciter  string `json:"reciter"`
}

type User struct {
	ID        int       `json:"id"`
	UserName  string    `json:"user_name,omitempty"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Reciter   string    `json:"reciter"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Token     string    `json:"token,omitempty"`
}
