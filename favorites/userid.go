package favorites

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

const userIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewUserID generates an anonymous per-install identity: "user_" plus a
// 9-character base36 suffix.
func NewUserID() string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = userIDAlphabet[rand.Intn(len(userIDAlphabet))]
	}
	return "user_" + string(suffix)
}

// LoadUserID returns the persisted per-install user id, generating and
// saving a fresh one on first use. A persistence failure still returns a
// usable id together with the error; callers treat it as a warning.
func LoadUserID() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	path := filepath.Join(dir, "oneshift", "user_id")

	if data, err := os.ReadFile(path); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	}

	id := NewUserID()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return id, err
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0o644); err != nil {
		return id, err
	}
	return id, nil
}
