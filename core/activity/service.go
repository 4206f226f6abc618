package activity

import (
	"net/mail"
	"sync"

	"github.com/pkg/errors"

	"github.com/mergington/activities/core"
	"github.com/mergington/activities/core/teacher"
)

var (
	// errors
	ErrNotFound        = errors.New("activity not found")
	ErrAlreadySignedUp = errors.New("student is already signed up for this activity")
	ErrNotSignedUp     = errors.New("student is not signed up for this activity")
	ErrFull            = errors.New("activity is full")
)

const (
	signupTemplate     = "signup_confirmation"
	unregisterTemplate = "unregister_confirmation"
)

type (
	Repository interface {
		GetActivity(name string) (Activity, error)
		// QueryActivities returns every activity in insertion order.
		QueryActivities() ([]Activity, error)
		// CreateActivity stores a under its name, replacing any previous activity.
		CreateActivity(a Activity) (Activity, error)
		CountActivities() (int, error)
		// AddParticipant appends email to the participants of the named activity.
		AddParticipant(name, email string) error
		// RemoveParticipant removes the first occurrence of email from the participants.
		RemoveParticipant(name, email string) error
		// Days returns the distinct meeting days of all activities, sorted by name.
		Days() ([]string, error)
	}

	ServiceInterface interface {
		Query(filter QueryFilter) ([]Activity, error)
		Get(name string) (Activity, error)
		Days() ([]string, error)
		Signup(name, email string, by teacher.Teacher) (Activity, error)
		Unregister(name, email string, by teacher.Teacher) (Activity, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService

		// serializes check-then-update sequences on participants
		mu sync.Mutex
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, mailSvc core.EmailService) *Service {
	return &Service{
		repo:    repo,
		mailSvc: mailSvc,
	}
}

func (svc *Service) Query(filter QueryFilter) ([]Activity, error) {
	all, err := svc.repo.QueryActivities()
	if err != nil {
		return nil, err
	}
	if filter.IsEmpty() {
		return all, nil
	}
	acts := make([]Activity, 0, len(all))
	for _, a := range all {
		if filter.Match(a) {
			acts = append(acts, a)
		}
	}
	return acts, nil
}

func (svc *Service) Get(name string) (Activity, error) {
	return svc.repo.GetActivity(name)
}

func (svc *Service) Days() ([]string, error) {
	return svc.repo.Days()
}

// Signup registers the student email for the named activity on behalf of a teacher.
func (svc *Service) Signup(name, email string, by teacher.Teacher) (Activity, error) {
	email = core.CleanString(email, true /* lower */)

	svc.mu.Lock()
	defer svc.mu.Unlock()

	act, err := svc.repo.GetActivity(name)
	if err != nil {
		return Activity{}, err
	}
	if act.HasParticipant(email) {
		return Activity{}, ErrAlreadySignedUp
	}
	if act.IsFull() {
		return Activity{}, ErrFull
	}
	if err := svc.repo.AddParticipant(name, email); err != nil {
		return Activity{}, errors.Wrap(err, "adding participant")
	}
	act.Participants = append(act.Participants, email)

	svc.sendConfirmation(signupTemplate, "Activity registration", act, email, by)
	return act, nil
}

// Unregister removes the student email from the named activity on behalf of a teacher.
func (svc *Service) Unregister(name, email string, by teacher.Teacher) (Activity, error) {
	email = core.CleanString(email, true /* lower */)

	svc.mu.Lock()
	defer svc.mu.Unlock()

	act, err := svc.repo.GetActivity(name)
	if err != nil {
		return Activity{}, err
	}
	if !act.HasParticipant(email) {
		return Activity{}, ErrNotSignedUp
	}
	if err := svc.repo.RemoveParticipant(name, email); err != nil {
		return Activity{}, errors.Wrap(err, "removing participant")
	}
	act, err = svc.repo.GetActivity(name)
	if err != nil {
		return Activity{}, errors.Wrap(err, "reloading activity")
	}

	svc.sendConfirmation(unregisterTemplate, "Activity unregistration", act, email, by)
	return act, nil
}

func (svc *Service) sendConfirmation(tmpl, subject string, act Activity, email string, by teacher.Teacher) {
	if svc.mailSvc == nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Address: email}},
		Subject:      subject + ": " + act.Name,
		TemplateName: tmpl,
		TemplateData: SignupMailData{
			Email:      email,
			Activity:   act.Name,
			Schedule:   act.Schedule,
			SignedUpBy: by.DisplayName,
		},
	})
}
