package user

// User is an account record. PasswordHash is the bcrypt hash of the
// plaintext concatenated with the server pepper; it never serializes.
type User struct {
	ID                    int64    `json:"id"`
	Firstname             string   `json:"firstname"`
	Lastname              string   `json:"lastname"`
	Email                 string   `json:"email"`
	PasswordHash          string   `json:"-"`
	LastPurchasedProducts []string `json:"lastPurchasedProducts"`
}

// NewUser is the sign-up payload.
// swagger:model NewUser
type NewUser struct {
	Firstname string `json:"firstname" example:"test"`
	Lastname  string `json:"lastname"  example:"test"`
	Email     string `json:"email"     example:"test@test.com"`
	Password  string `json:"password"  example:"test"`
}

// UpdateUser is a partial update: nil fields are left untouched.
// swagger:model UpdateUser
type UpdateUser struct {
	ID        int64   `json:"-"`
	Firstname *string `json:"firstname"`
	Lastname  *string `json:"lastname"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
}
