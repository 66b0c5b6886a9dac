package domain

import "time"

type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Address      string    `json:"address"`
	PhoneNumber  string    `json:"phone_number"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	Token        string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserSummary is the buyer projection attached to orders and history entries.
type UserSummary struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type AuthResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Token string `json:"token"`
}

type UserRepository interface {
	CreateUser(user *User) (*User, error)
	GetUserByID(id int) (*User, error)
	GetUserByEmail(email string) (*User, error)
	GetUserByToken(token string) (*User, error)
	ListUsers(nameFilter string) ([]User, error)
	UpdateUser(user *User) (*User, error)
	SetToken(id int, token string) error
	ClearToken(id int) error
	DeleteUser(id int) error
}

type UserUseCase interface {
	Register(name, email, address, phoneNumber, password string, role Role) (*User, error)
	Login(email, password string) (*AuthResponse, error)
	Logout(userID int, callerRole Role) error
	GetUserByToken(token string) (*User, error)
	GetUserByID(userID int, callerRole Role) (*User, error)
	ListUsers(nameFilter string, callerRole Role) ([]User, error)
	UpdateUser(user *User, password string, callerRole Role) (*User, error)
	DeleteUser(userID int, callerRole Role) error
}
