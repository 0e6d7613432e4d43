package domain

import (
	"time"
)

var (
	// ErrUsernameAlreadyExists indicates the the user with the given username already exists.
	ErrUsernameAlreadyExists = classed(ErrConflict, "username already exists")
	// ErrUserNotFound indicates the the user is not found.
	ErrUserNotFound = classed(ErrNotFound, "user not found")
	// ErrWrongPassword indicates the wrong password for the given user.
	ErrWrongPassword = classed(ErrValidation, "wrong password")
	// ErrPasswordMismatch indicates that the new password and its confirmation differ.
	ErrPasswordMismatch = classed(ErrValidation, "new password and confirmation do not match")
	// ErrShortPassword indicates a password below the minimal length.
	ErrShortPassword = classed(ErrValidation, "password is too short")
	// ErrNotBankManager indicates that the operation requires a bank manager.
	ErrNotBankManager = classed(ErrForbidden, "bank manager required")
)

// MinPasswordLength is the minimal accepted password length.
const MinPasswordLength = 6

// User holds user data.
type User struct {
	ID                int32     `json:"id"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	Username          string    `json:"username"`
	HashedPassword    string    `json:"hashed_password"`
	IsBankManager     bool      `json:"is_bank_manager"`
	PasswordChangedAt time.Time `json:"password_changed_at,omitempty"`
	CreatedAt         time.Time `json:"created_at,omitempty"`
}

// CreateUserParams is the input data to create a user.
type CreateUserParams struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Username       string `json:"username"`
	HashedPassword string `json:"hashed_password"`
	IsBankManager  bool   `json:"is_bank_manager"`
}

// UpdateUserParams is the input data to update user profile fields.
type UpdateUserParams struct {
	ID        int32  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

// UserWihtoutPassword is User data excluding password data.
type UserWihtoutPassword struct {
	ID            int32     `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Username      string    `json:"username"`
	IsBankManager bool      `json:"is_bank_manager"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewUserWihtoutPassword returns user with removed sensitive data.
func NewUserWihtoutPassword(u User) UserWihtoutPassword {
	return UserWihtoutPassword{
		ID:            u.ID,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Username:      u.Username,
		IsBankManager: u.IsBankManager,
		CreatedAt:     u.CreatedAt,
	}
}

// SignUpResult is the result of the sign up transaction.
type SignUpResult struct {
	User    User    `json:"user"`
	Account Account `json:"account"`
}
