package repositories

import (
	"fmt"
	"presence-lab/errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

const DefaultMaxNameLength = 1023

var validate = validator.New()

// NameNormalizer validates a name and returns its canonical form.
// Protocol-specific syntax lives in the caller's normalizer.
type NameNormalizer func(name string) (string, error)

// TagNormalizer trims surrounding space and checks the result against a
// validator tag.
func TagNormalizer(tag string) NameNormalizer {
	return func(name string) (string, error) {
		normalized := strings.TrimSpace(name)
		if err := validate.Var(normalized, tag); err != nil {
			return "", fmt.Errorf("%w: %q: %v", errors.ErrInvalidArgument, name, err)
		}
		return normalized, nil
	}
}

func ContactNormalizer(maxLength int) NameNormalizer {
	return TagNormalizer(fmt.Sprintf("required,max=%d", maxLength))
}

// RoomNormalizer also rejects '/', the separator of channel-specific
// participant names.
func RoomNormalizer(maxLength int) NameNormalizer {
	return TagNormalizer(fmt.Sprintf("required,max=%d,excludesall=/", maxLength))
}
