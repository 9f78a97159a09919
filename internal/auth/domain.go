package auth

// User represents a provisioned dashboard account. Users are created by the
// seed tool and only read here.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
}

// Credentials carries the raw sign-in form values.
type Credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}
