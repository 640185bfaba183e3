package passwords

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	kerrors "github.com/PolarWolf314/keysmith/internal/errors"
	"golang.org/x/crypto/argon2"
)

// Argon2Params are the argon2id cost parameters.
type Argon2Params struct {
	Memory      uint32 // KiB
	Time        uint32
	Parallelism uint8
	SaltLen     int
	KeyLen      uint32
}

// DefaultArgon2 matches the defaults of the common argon2 bindings.
var DefaultArgon2 = Argon2Params{
	Memory:      128 * 1024,
	Time:        3,
	Parallelism: 1,
	SaltLen:     16,
	KeyLen:      32,
}

var saltReader io.Reader = rand.Reader

func (p Argon2Params) withDefaults() Argon2Params {
	if p.Memory == 0 {
		p.Memory = DefaultArgon2.Memory
	}
	if p.Time == 0 {
		p.Time = DefaultArgon2.Time
	}
	if p.Parallelism == 0 {
		p.Parallelism = DefaultArgon2.Parallelism
	}
	if p.SaltLen == 0 {
		p.SaltLen = DefaultArgon2.SaltLen
	}
	if p.KeyLen == 0 {
		p.KeyLen = DefaultArgon2.KeyLen
	}
	return p
}

// Argon2Hash hashes plain with argon2id. Zero fields in p take their
// DefaultArgon2 values.
func Argon2Hash(plain string, p Argon2Params) (string, error) {
	p = p.withDefaults()
	if p.SaltLen < 8 {
		return "", fmt.Errorf("salt length %d is too short: %w", p.SaltLen, kerrors.ErrValidation)
	}

	salt := make([]byte, p.SaltLen)
	if _, err := io.ReadFull(saltReader, salt); err != nil {
		return "", fmt.Errorf("reading salt: %w", err)
	}
	key := argon2.IDKey([]byte(plain), salt, p.Time, p.Memory, p.Parallelism, p.KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Time, p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Argon2Compare reports whether plain matches an encoded argon2id hash.
// Malformed hashes follow the same suppressErrors rule as BcryptCompare.
func Argon2Compare(plain, encoded string, suppressErrors bool) (bool, error) {
	ok, err := argon2Compare(plain, encoded)
	if err != nil && suppressErrors {
		return false, nil
	}
	return ok, err
}

func argon2Compare(plain, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, hash
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return false, fmt.Errorf("not an argon2id hash: %w", kerrors.ErrFormat)
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, fmt.Errorf("unsupported argon2 version %q: %w", parts[2], kerrors.ErrFormat)
	}

	var m, t uint32
	var p uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &m, &t, &p); err != nil {
		return false, fmt.Errorf("parsing argon2 parameters: %v: %w", err, kerrors.ErrFormat)
	}
	if m == 0 || t == 0 || p == 0 {
		return false, fmt.Errorf("argon2 parameters must be positive: %w", kerrors.ErrFormat)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("decoding salt: %v: %w", err, kerrors.ErrFormat)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false, fmt.Errorf("decoding hash: %w", kerrors.ErrFormat)
	}

	got := argon2.IDKey([]byte(plain), salt, t, m, p, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
