package teacher

import (
	"testing"

	"github.com/pkg/errors"
)

type fakeRepo map[string]Teacher

func (r fakeRepo) GetTeacher(uname string) (Teacher, error) {
	t, ok := r[uname]
	if !ok {
		return Teacher{}, ErrNotFound
	}
	return t, nil
}

func (r fakeRepo) CreateTeacher(t Teacher) (Teacher, error) {
	r[t.Username] = t
	return t, nil
}

func (r fakeRepo) CountTeachers() (int, error) { return len(r), nil }

type failingRepo struct{ fakeRepo }

var errStorage = errors.New("storage down")

func (failingRepo) GetTeacher(string) (Teacher, error) { return Teacher{}, errStorage }

func TestService_Authenticate(t *testing.T) {
	cheapArgon(t)

	repo := make(fakeRepo)
	svc := NewService(repo)
	chen, err := svc.Create(NewTeacher{Username: "mchen", DisplayName: "Mr. Chen", Role: RoleTeacher, Password: "chess456"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if chen.PasswordHash == "" || chen.PasswordHash == "chess456" {
		t.Fatalf("Create() stored password = %q; want a hash", chen.PasswordHash)
	}

	tests := []struct {
		name    string
		uname   string
		pwd     string
		wantErr error
	}{
		{name: "unknown username", uname: "mlee", pwd: "chess456", wantErr: ErrInvalidCredentials},
		{name: "wrong password", uname: "mchen", pwd: "chess457", wantErr: ErrInvalidCredentials},
		{name: "ok", uname: "mchen", pwd: "chess456"},
		{name: "username is cleaned", uname: " MCHEN", pwd: "chess456"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Authenticate(tt.uname, tt.pwd)
			if err != tt.wantErr {
				t.Fatalf("Authenticate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got.Username != chen.Username {
				t.Errorf("Authenticate() = %v, want %v", got, chen)
			}
		})
	}

	t.Run("storage error", func(t *testing.T) {
		_, err := NewService(failingRepo{repo}).Authenticate("mchen", "chess456")
		if errors.Cause(err) != errStorage {
			t.Errorf("Authenticate() error = %v, want %v", err, errStorage)
		}
	})
}
