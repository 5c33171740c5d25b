package utils

import (
	"crypto/rand"
	"crypto/sha1" //nolint:gosec
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

// hashCost is the bcrypt cost used for new hashes.
const hashCost = 14

// ErrUnsupportedHash is returned for stored credentials that carry a hash
// prefix whose parameters cannot be parsed.
var ErrUnsupportedHash = errors.New("unsupported password hash")

// bcryptMaxLen is the longest password bcrypt accepts.
const bcryptMaxLen = 72

// scrypt parameters for passwords too long for bcrypt, in werkzeug's
// default layout so CheckPasswordHash verifies them.
const (
	scryptN      = 32768
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64
)

// HashPassword hashes a plain password using bcrypt. Passwords longer than
// bcrypt accepts are hashed with scrypt instead.
func HashPassword(password string) (string, error) {
	if len(password) > bcryptMaxLen {
		return hashScrypt(password)
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	return string(bytes), err
}

func hashScrypt(password string) (string, error) {
	raw := make([]byte, 8)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	salt := hex.EncodeToString(raw)
	derived, err := scrypt.Key([]byte(password), []byte(salt), scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("scrypt:%d:%d:%d$%s$%s", scryptN, scryptR, scryptP, salt, hex.EncodeToString(derived)), nil
}

// CheckPasswordHash compares a plain password with a stored hash. bcrypt
// hashes and werkzeug pbkdf2/scrypt hashes are supported.
func CheckPasswordHash(password, hash string) bool {
	switch {
	case isBcrypt(hash):
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	case strings.HasPrefix(hash, "pbkdf2:"):
		ok, err := checkPBKDF2(password, hash)
		return err == nil && ok
	case strings.HasPrefix(hash, "scrypt:"):
		ok, err := checkScrypt(password, hash)
		return err == nil && ok
	default:
		return false
	}
}

// IsHashed reports whether a stored credential carries a recognized
// one-way hash prefix. Anything else is treated as legacy plaintext.
func IsHashed(stored string) bool {
	return isBcrypt(stored) ||
		strings.HasPrefix(stored, "pbkdf2:") ||
		strings.HasPrefix(stored, "scrypt:")
}

func isBcrypt(s string) bool {
	return strings.HasPrefix(s, "$2a$") ||
		strings.HasPrefix(s, "$2b$") ||
		strings.HasPrefix(s, "$2y$")
}

// splitWerkzeug splits "method$salt$hex" into its parts.
func splitWerkzeug(stored string) (method, salt string, sum []byte, err error) {
	parts := strings.SplitN(stored, "$", 3)
	if len(parts) != 3 {
		return "", "", nil, ErrUnsupportedHash
	}
	sum, err = hex.DecodeString(parts[2])
	if err != nil {
		return "", "", nil, ErrUnsupportedHash
	}
	return parts[0], parts[1], sum, nil
}

// checkPBKDF2 verifies "pbkdf2:sha256:600000$salt$hex".
func checkPBKDF2(password, stored string) (bool, error) {
	method, salt, sum, err := splitWerkzeug(stored)
	if err != nil {
		return false, err
	}
	args := strings.Split(method, ":")
	if len(args) < 2 || len(args) > 3 {
		return false, ErrUnsupportedHash
	}
	var h func() hash.Hash
	switch args[1] {
	case "sha1":
		h = sha1.New
	case "sha256":
		h = sha256.New
	case "sha512":
		h = sha512.New
	default:
		return false, ErrUnsupportedHash
	}
	iterations := 600000
	if len(args) == 3 {
		if iterations, err = strconv.Atoi(args[2]); err != nil || iterations <= 0 {
			return false, ErrUnsupportedHash
		}
	}
	derived := pbkdf2.Key([]byte(password), []byte(salt), iterations, len(sum), h)
	return subtle.ConstantTimeCompare(derived, sum) == 1, nil
}

// checkScrypt verifies "scrypt:32768:8:1$salt$hex".
func checkScrypt(password, stored string) (bool, error) {
	method, salt, sum, err := splitWerkzeug(stored)
	if err != nil {
		return false, err
	}
	args := strings.Split(method, ":")
	n, r, p := 32768, 8, 1
	if len(args) == 4 {
		var perr [3]error
		n, perr[0] = strconv.Atoi(args[1])
		r, perr[1] = strconv.Atoi(args[2])
		p, perr[2] = strconv.Atoi(args[3])
		if errors.Join(perr[:]...) != nil {
			return false, ErrUnsupportedHash
		}
	} else if len(args) != 1 {
		return false, ErrUnsupportedHash
	}
	derived, err := scrypt.Key([]byte(password), []byte(salt), n, r, p, len(sum))
	if err != nil {
		return false, ErrUnsupportedHash
	}
	return subtle.ConstantTimeCompare(derived, sum) == 1, nil
}
