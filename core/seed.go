package core

import (
	"bytes"
	_ "embed"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

//go:embed assets/seed.yaml
var defaultSeed []byte

type (
	// Seed is the initial content of the store.
	Seed struct {
		Activities []ActivitySeed `mapstructure:"activities" json:"activities" validate:"dive"`
		Teachers   []TeacherSeed  `mapstructure:"teachers" json:"teachers" validate:"dive"`
	}

	ActivitySeed struct {
		Name            string       `mapstructure:"name" json:"name" validate:"required"`
		Description     string       `mapstructure:"description" json:"description"`
		Schedule        string       `mapstructure:"schedule" json:"schedule"`
		ScheduleDetails ScheduleSeed `mapstructure:"schedule_details" json:"schedule_details"`
		MaxParticipants int          `mapstructure:"max_participants" json:"max_participants" validate:"gte=0"`
		Participants    []string     `mapstructure:"participants" json:"participants" validate:"dive,email"`
	}

	ScheduleSeed struct {
		Days      []string `mapstructure:"days" json:"days" validate:"dive,weekday"`
		StartTime string   `mapstructure:"start_time" json:"start_time" validate:"omitempty,hhmm"`
		EndTime   string   `mapstructure:"end_time" json:"end_time" validate:"omitempty,hhmm"`
	}

	TeacherSeed struct {
		Username    string `mapstructure:"username" json:"username" validate:"required,alphanum_"`
		DisplayName string `mapstructure:"display_name" json:"display_name" validate:"required"`
		Role        string `mapstructure:"role" json:"role" validate:"required,oneof=teacher admin"`
		Password    string `mapstructure:"password" json:"password" validate:"required"`
	}
)

// LoadSeed reads the seed file at path, or the bundled seed when path is empty.
func LoadSeed(path string) (Seed, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if path == "" {
		if err := v.ReadConfig(bytes.NewReader(defaultSeed)); err != nil {
			return Seed{}, errors.Wrap(err, "reading bundled seed")
		}
	} else {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Seed{}, errors.Wrapf(err, "reading seed file %s", path)
		}
	}

	var seed Seed
	if err := v.Unmarshal(&seed); err != nil {
		return Seed{}, errors.Wrap(err, "decoding seed")
	}
	return seed, nil
}

// Validate checks every seeded activity and teacher. Duplicate names are reported as well
// since the store silently overwrites documents sharing an identifier; usernames are
// compared case-insensitively.
func (s Seed) Validate(validate *validator.Validate) error {
	if err := validate.Struct(s); err != nil {
		return err
	}

	var fields []FieldError
	names := make(map[string]bool, len(s.Activities))
	for _, a := range s.Activities {
		if names[a.Name] {
			fields = append(fields, FieldError{Field: "activities", Error: "duplicate activity " + a.Name})
		}
		names[a.Name] = true
	}
	unames := make(map[string]bool, len(s.Teachers))
	for _, t := range s.Teachers {
		uname := CleanString(t.Username, true)
		if unames[uname] {
			fields = append(fields, FieldError{Field: "teachers", Error: "duplicate teacher " + uname})
		}
		unames[uname] = true
	}
	if len(fields) > 0 {
		return NewValidationError(errors.New("invalid seed"), fields...)
	}
	return nil
}
