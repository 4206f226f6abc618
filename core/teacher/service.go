package teacher

import (
	"github.com/pkg/errors"

	"github.com/mergington/activities/core"
)

var (
	// errors
	ErrNotFound           = errors.New("teacher not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type (
	Repository interface {
		GetTeacher(username string) (Teacher, error)
		// CreateTeacher stores t under its username, replacing any previous account.
		CreateTeacher(t Teacher) (Teacher, error)
		CountTeachers() (int, error)
	}

	ServiceInterface interface {
		GetByUsername(username string) (Teacher, error)
		Authenticate(username, pwd string) (Teacher, error)
		Create(nt NewTeacher) (Teacher, error)
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) GetByUsername(uname string) (Teacher, error) {
	return svc.repo.GetTeacher(core.CleanString(uname, true /* lower */))
}

// Authenticate returns the Teacher owning the credentials. Unknown usernames and
// wrong passwords both yield ErrInvalidCredentials.
func (svc *Service) Authenticate(uname, pwd string) (Teacher, error) {
	t, err := svc.GetByUsername(uname)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Teacher{}, ErrInvalidCredentials
		}
		return Teacher{}, errors.Wrap(err, "finding teacher by username")
	}
	if err := t.CheckPassword(pwd); err != nil {
		return Teacher{}, ErrInvalidCredentials
	}
	return t, nil
}

// Create hashes the password of an already validated NewTeacher and stores the account.
func (svc *Service) Create(nt NewTeacher) (Teacher, error) {
	t := Teacher{
		Username:    nt.Username,
		DisplayName: nt.DisplayName,
		Role:        nt.Role,
	}
	if err := t.SetPassword(nt.Password); err != nil {
		return Teacher{}, errors.Wrap(err, "hashing password")
	}
	return svc.repo.CreateTeacher(t)
}
