package models

type User struct {
	ID       int    `json:"id,omitempty" db:"id,omitempty"`
	Email    string `json:"email,omitempty" db:"email,omitempty"`
	Password string `json:"-" db:"password,omitempty"`
}
