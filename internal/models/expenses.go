package models

import "github.com/shopspring/decimal"

type Expense struct {
	ID          int             `json:"id" db:"id,omitempty"`
	GroupID     int             `json:"group_id" db:"group_id,omitempty"`
	Payer       int             `json:"payer" db:"payer,omitempty"`
	Amount      decimal.Decimal `json:"amount" db:"amount,omitempty"`
	Description string          `json:"description" db:"description,omitempty"`
}
