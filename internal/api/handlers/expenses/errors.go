package expenses

import (
	"errors"
	"fmt"
)

var errNoFields = errors.New("no fields to update")

func errInvalidField(name string) error {
	return fmt.Errorf("invalid %s", name)
}
