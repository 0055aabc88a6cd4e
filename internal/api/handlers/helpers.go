package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"splitpot/internal/services"
	"splitpot/pkg/utils"

	"github.com/shopspring/decimal"
)

var ErrEmptyBody = errors.New("empty request body")

func CheckBlankFields(value interface{}) error {
	val := reflect.ValueOf(value)
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if field.Kind() == reflect.String && strings.TrimSpace(field.String()) == "" {
			return utils.ErrorHandler(errors.New("all fields are required"), "all fields are required")
		}
	}
	return nil
}

// DecodeJSON decodes the request body into dst, rejecting unknown fields.
// Numbers decoded into interface{} values become json.Number.
func DecodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	decoder.UseNumber()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return err
	}
	return nil
}

// PathID parses the named path segment as a positive integer id.
func PathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(r.PathValue(name))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// QueryID parses an optional integer query parameter. ok is false when the
// parameter is absent.
func QueryID(r *http.Request, name string) (id int, ok bool, err error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false, nil
	}
	id, err = strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("invalid %s", name)
	}
	return id, true, nil
}

// maxExpenseAmount is the first value that no longer fits the DECIMAL(15,2)
// amount column.
var maxExpenseAmount = decimal.New(1, 13)

// ParseExpenseAmount validates an amount arriving at the API: it must be a
// finite number greater than zero with at most two decimal places that fits
// the amount column.
func ParseExpenseAmount(v interface{}) (decimal.Decimal, error) {
	amount, err := services.ParseAmount(v)
	if err != nil {
		return decimal.Zero, errors.New("amount must be a number")
	}
	if !amount.IsPositive() {
		return decimal.Zero, errors.New("amount must be greater than 0")
	}
	if !amount.Equal(amount.Round(2)) {
		return decimal.Zero, errors.New("amount must have at most 2 decimal places")
	}
	if amount.GreaterThanOrEqual(maxExpenseAmount) {
		return decimal.Zero, errors.New("amount must be less than 10000000000000")
	}
	return amount, nil
}
