package utils

import (
	"github.com/matthewhartstonge/argon2"
)

var argonConfig = argon2.DefaultConfig()

// HashPassword encodes with argon2id. The encoded form embeds its own
// parameters, so verification needs no shared config.
func HashPassword(password string) (string, error) {
	encoded, err := argonConfig.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func VerifyPassword(encodedHash, password string) (bool, error) {
	ok, err := argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
	if err != nil {
		return false, err
	}
	return ok, nil
}
