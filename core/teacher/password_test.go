package teacher

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func cheapArgon(t *testing.T) {
	orig := ArgonParams
	ArgonParams = argonParams{Memory: 1024, Time: 1, Threads: 1, SaltLen: 16, KeyLen: 32}
	t.Cleanup(func() { ArgonParams = orig })
}

func TestHashPassword(t *testing.T) {
	cheapArgon(t)

	h1, err := HashPassword("chess456")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	h2, _ := HashPassword("chess456")
	if h1 == h2 {
		t.Error("HashPassword() must salt hashes")
	}
	if !strings.HasPrefix(h1, "$argon2id$v=19$m=1024,t=1,p=1$") {
		t.Errorf("HashPassword() = %q; want PHC formatted argon2id hash", h1)
	}
	if !IsHashed(h1) {
		t.Errorf("IsHashed(%q) = false", h1)
	}
}

func TestCheckPassword(t *testing.T) {
	cheapArgon(t)

	argonHash, _ := HashPassword("art123")
	bcryptHash, _ := bcrypt.GenerateFromPassword([]byte("art123"), bcrypt.MinCost)
	sum := sha256.Sum256([]byte("art123"))
	shaHash := hex.EncodeToString(sum[:])

	tests := []struct {
		name    string
		hash    string
		pwd     string
		wantErr error
	}{
		{name: "argon2id", hash: argonHash, pwd: "art123"},
		{name: "argon2id mismatch", hash: argonHash, pwd: "art124", wantErr: ErrPasswordMismatch},
		{name: "bcrypt", hash: string(bcryptHash), pwd: "art123"},
		{name: "bcrypt mismatch", hash: string(bcryptHash), pwd: "ART123", wantErr: ErrPasswordMismatch},
		{name: "sha256", hash: shaHash, pwd: "art123"},
		{name: "sha256 upper case", hash: strings.ToUpper(shaHash), pwd: "art123"},
		{name: "sha256 mismatch", hash: shaHash, pwd: "art", wantErr: ErrPasswordMismatch},
		{name: "plain text is never accepted", hash: "art123", pwd: "art123", wantErr: ErrPasswordMismatch},
		{name: "no hash", hash: "", pwd: "", wantErr: ErrPasswordMismatch},
		{name: "truncated argon2id", hash: "$argon2id$v=19$m=1024,t=1,p=1$c2FsdA", pwd: "art123", wantErr: errMalformedHash},
		{name: "argon2id bad version", hash: strings.Replace(argonHash, "v=19", "v=16", 1), pwd: "art123", wantErr: errMalformedHash},
		{name: "argon2id bad params", hash: strings.Replace(argonHash, "m=1024", "m=lol", 1), pwd: "art123", wantErr: errMalformedHash},
		{name: "argon2id zero parallelism", hash: strings.Replace(argonHash, "p=1", "p=0", 1), pwd: "art123", wantErr: errMalformedHash},
		{name: "argon2id parallelism overflow", hash: strings.Replace(argonHash, "p=1", "p=256", 1), pwd: "art123", wantErr: errMalformedHash},
		{name: "argon2id zero time", hash: strings.Replace(argonHash, "t=1", "t=0", 1), pwd: "art123", wantErr: errMalformedHash},
		{name: "argon2id memory below 8*p", hash: strings.Replace(argonHash, "m=1024,t=1,p=1", "m=16,t=1,p=4", 1), pwd: "art123", wantErr: errMalformedHash},
		{name: "argon2id memory too high", hash: strings.Replace(argonHash, "m=1024", "m=4294967295", 1), pwd: "art123", wantErr: errMalformedHash},
		{name: "argon2id time too high", hash: strings.Replace(argonHash, "t=1", "t=1000000", 1), pwd: "art123", wantErr: errMalformedHash},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := CheckPassword(tt.hash, tt.pwd); err != tt.wantErr {
				t.Errorf("CheckPassword() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsHashed(t *testing.T) {
	sum := sha256.Sum256([]byte("admin789"))

	tests := []struct {
		s    string
		want bool
	}{
		{s: "admin789", want: false},
		{s: "", want: false},
		{s: hex.EncodeToString(sum[:]), want: true},
		{s: strings.Repeat("z", 64), want: false},
		{s: "$2a$04$abcdefghijklmnopqrstuu", want: true},
		{s: "$argon2id$v=19$m=1024,t=1,p=1$c2FsdHNhbHQ$a2V5", want: true},
		{s: "$argon2id$v=19$m=1024,t=1,p=0$c2FsdHNhbHQ$a2V5", want: false},
		{s: "$argon2id$v=19$m=1024,t=1,p=1$c2FsdA", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			if got := IsHashed(tt.s); got != tt.want {
				t.Errorf("IsHashed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckHash(t *testing.T) {
	tests := []struct {
		name    string
		s       string
		wantErr error
	}{
		{name: "plain text", s: "admin789"},
		{name: "bcrypt", s: "$2a$04$abcdefghijklmnopqrstuu"},
		{name: "argon2id", s: "$argon2id$v=19$m=65536,t=3,p=4$c2FsdHNhbHQ$a2V5"},
		{name: "argon2id zero parallelism", s: "$argon2id$v=19$m=65536,t=3,p=0$c2FsdHNhbHQ$a2V5", wantErr: errMalformedHash},
		{name: "argon2id zero time", s: "$argon2id$v=19$m=65536,t=0,p=4$c2FsdHNhbHQ$a2V5", wantErr: errMalformedHash},
		{name: "argon2id empty key", s: "$argon2id$v=19$m=65536,t=3,p=4$c2FsdHNhbHQ$", wantErr: errMalformedHash},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := CheckHash(tt.s); err != tt.wantErr {
				t.Errorf("CheckHash() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
