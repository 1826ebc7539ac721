package cli

import (
	"errors"
)

// BulbName accepts lowercase letters, digits, '-' and '_', starting with a letter.
func BulbName(input string) error {
	if len(input) == 0 {
		return errors.New("name cannot be empty")
	}
	if input[0] < 'a' || input[0] > 'z' {
		return errors.New("name must start with a lowercase letter")
	}
	for _, c := range input {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return errors.New("name must contain only lowercase letters, numbers, '-' and '_'")
		}
	}
	return nil
}
