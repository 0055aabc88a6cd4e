package models

type Group struct {
	ID    int    `json:"id,omitempty" db:"id,omitempty"`
	Name  string `json:"name,omitempty" db:"name,omitempty"`
	Owner int    `json:"owner,omitempty" db:"owner,omitempty"`
}
