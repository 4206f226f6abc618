package teacher

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrPasswordMismatch = errors.New("password does not match")
	errMalformedHash    = errors.New("malformed argon2id hash")

	// argon2id parameters for new hashes; mockable (tests use cheaper ones)
	ArgonParams = argonParams{Memory: 64 * 1024, Time: 3, Threads: 4, SaltLen: 16, KeyLen: 32}
)

const (
	argon2idPrefix = "$argon2id$"

	// upper bound on the memory cost of verified hashes, in KiB (256 MiB)
	argonMaxMemory = 256 * 1024
	argonMaxTime   = 16
)

type argonParams struct {
	Memory  uint32
	Time    uint32
	Threads uint8
	SaltLen uint32
	KeyLen  uint32
}

// HashPassword returns an argon2id hash in PHC string format:
// $argon2id$v=19$m=65536,t=3,p=4$<salt>$<key>
func HashPassword(pwd string) (string, error) {
	p := ArgonParams
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.Wrap(err, "generating salt")
	}
	key := argon2.IDKey([]byte(pwd), salt, p.Time, p.Memory, p.Threads, p.KeyLen)
	return fmt.Sprintf(
		"%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2idPrefix, argon2.Version, p.Memory, p.Time, p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// IsHashed reports whether s is a hash CheckPassword knows how to verify.
func IsHashed(s string) bool {
	if strings.HasPrefix(s, argon2idPrefix) {
		return CheckHash(s) == nil
	}
	return isBcrypt(s) || isSHA256Hex(s)
}

// CheckHash returns an error when s claims to be an argon2id hash but its
// encoding or cost parameters are invalid. Any other value is accepted.
func CheckHash(s string) error {
	if !strings.HasPrefix(s, argon2idPrefix) {
		return nil
	}
	_, _, _, err := parseArgon2id(s)
	return err
}

func isSHA256Hex(s string) bool {
	if len(s) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

func isBcrypt(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// CheckPassword verifies pwd against hash. argon2id and bcrypt hashes are supported;
// anything else is compared with the hex encoded SHA-256 of pwd (legacy accounts).
func CheckPassword(hash, pwd string) error {
	switch {
	case hash == "":
		return ErrPasswordMismatch
	case strings.HasPrefix(hash, argon2idPrefix):
		return checkArgon2id(hash, pwd)
	case isBcrypt(hash):
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pwd)); err != nil {
			return ErrPasswordMismatch
		}
		return nil
	}

	sum := sha256.Sum256([]byte(pwd))
	if subtle.ConstantTimeCompare([]byte(strings.ToLower(hash)), []byte(hex.EncodeToString(sum[:]))) == 1 {
		return nil
	}
	return ErrPasswordMismatch
}

func checkArgon2id(hash, pwd string) error {
	p, salt, key, err := parseArgon2id(hash)
	if err != nil {
		return err
	}
	other := argon2.IDKey([]byte(pwd), salt, p.Time, p.Memory, p.Threads, uint32(len(key)))
	if subtle.ConstantTimeCompare(key, other) == 1 {
		return nil
	}
	return ErrPasswordMismatch
}

// parseArgon2id decodes a PHC string. argon2.IDKey panics on a zero time or
// parallelism, so the cost parameters are range checked here.
func parseArgon2id(hash string) (p argonParams, salt, key []byte, err error) {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		return p, nil, nil, errMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, errMalformedHash
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return p, nil, nil, errMalformedHash
	}
	if p.Time < 1 || p.Time > argonMaxTime || p.Threads < 1 ||
		p.Memory < 8*uint32(p.Threads) || p.Memory > argonMaxMemory {
		return p, nil, nil, errMalformedHash
	}
	if salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return p, nil, nil, errMalformedHash
	}
	if key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(key) == 0 {
		return p, nil, nil, errMalformedHash
	}
	return p, salt, key, nil
}
