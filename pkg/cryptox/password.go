package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Configuration for Argon2id hashing.
const (
	memory      = 19 * 1024 // Memory usage in KiB (19 MiB)
	iterations  = 2         // Iteration count
	parallelism = 1         // Number of threads
	keyLength   = 32        // Length of the generated hash
	saltLength  = 16        // Length of the salt
)

// Upper bounds on parameters read back from stored hashes.
const (
	maxMemory      = 1 << 20 // KiB (1 GiB)
	maxIterations  = 16
	maxParallelism = 16
	minHashLength  = 16
	maxHashLength  = 64
	maxSaltLength  = 64
)

// ErrHashFormat reports a stored hash we do not know how to parse.
var ErrHashFormat = errors.New("cryptox: invalid hash format")

// Hasher hashes and verifies passwords. New hashes are always Argon2id in
// PHC format; bcrypt hashes written by the previous backend still verify.
//
// The pepper is fixed at construction and appended to every Argon2id input.
// It does not apply to bcrypt hashes, those were never peppered.
type Hasher struct {
	pepper string
}

// NewHasher returns a Hasher using the given pepper (may be empty).
func NewHasher(pepper string) *Hasher {
	return &Hasher{pepper: pepper}
}

// Hash generates a PHC-format Argon2id hash string including salt and parameters.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey(
		[]byte(password+h.pepper),
		salt,
		iterations,
		memory,
		parallelism,
		keyLength,
	)
	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	// Return PHC-style encoded string
	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory,
		iterations,
		parallelism,
		b64Salt,
		b64Hash,
	), nil
}

// Verify reports whether password matches encodedHash. A malformed or
// unsupported hash is a mismatch, never an error.
func (h *Hasher) Verify(password, encodedHash string) bool {
	return h.compare(password, encodedHash) == nil
}

func (h *Hasher) compare(password, encodedHash string) error {
	if isBcrypt(encodedHash) {
		if err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)); err != nil {
			return errors.New("password does not match")
		}
		return nil
	}

	params, salt, expectedHash, err := parseArgon2id(encodedHash)
	if err != nil {
		return err
	}

	computed := argon2.IDKey(
		[]byte(password+h.pepper),
		salt,
		params.iterations,
		params.memory,
		params.parallelism,
		uint32(len(expectedHash)), // #nosec G115 - bounded by the decoded hash
	)

	if subtle.ConstantTimeCompare(computed, expectedHash) == 1 {
		return nil
	}
	return errors.New("password does not match")
}

type argon2Params struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
}

// parseArgon2id splits $argon2id$v=19$m=X,t=Y,p=Z$salt$hash into its parts.
func parseArgon2id(encodedHash string) (argon2Params, []byte, []byte, error) {
	var p argon2Params

	// ["", "argon2id", "v=19", "m=X,t=Y,p=Z", "salt", "hash"]
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return p, nil, nil, fmt.Errorf("%w: expected 6 parts", ErrHashFormat)
	}
	if parts[0] != "" || parts[1] != "argon2id" {
		return p, nil, nil, fmt.Errorf("%w: not argon2id", ErrHashFormat)
	}
	if parts[2] != "v=19" {
		return p, nil, nil, fmt.Errorf("%w: wrong version", ErrHashFormat)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.iterations, &p.parallelism); err != nil {
		return p, nil, nil, fmt.Errorf("%w: failed to parse parameters: %w", ErrHashFormat, err)
	}
	if p.memory == 0 || p.iterations == 0 || p.parallelism == 0 {
		return p, nil, nil, fmt.Errorf("%w: zero parameter", ErrHashFormat)
	}
	if p.memory > maxMemory || p.iterations > maxIterations || p.parallelism > maxParallelism {
		return p, nil, nil, fmt.Errorf("%w: parameters out of range", ErrHashFormat)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, fmt.Errorf("%w: failed to decode salt: %w", ErrHashFormat, err)
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return p, nil, nil, fmt.Errorf("%w: failed to decode hash: %w", ErrHashFormat, err)
	}
	if len(salt) == 0 || len(salt) > maxSaltLength {
		return p, nil, nil, fmt.Errorf("%w: salt length %d", ErrHashFormat, len(salt))
	}
	if len(hash) < minHashLength || len(hash) > maxHashLength {
		return p, nil, nil, fmt.Errorf("%w: hash length %d", ErrHashFormat, len(hash))
	}

	return p, salt, hash, nil
}

func isBcrypt(encodedHash string) bool {
	return strings.HasPrefix(encodedHash, "$2a$") ||
		strings.HasPrefix(encodedHash, "$2b$") ||
		strings.HasPrefix(encodedHash, "$2y$")
}
