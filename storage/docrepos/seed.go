// Package docrepos implements the domain repositories on top of the in-memory document store.
package docrepos

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/mergington/activities/core"
	"github.com/mergington/activities/core/activity"
	"github.com/mergington/activities/core/teacher"
)

// Seed populates the activities and teachers collections from seed.
// A collection that already holds documents is left untouched.
// Usernames and participant emails are trimmed and lowercased the way the services
// compare them. Plain text teacher passwords are hashed; already hashed ones are kept
// as is, and argon2id hashes that could not be verified are rejected.
func Seed(acts activity.Repository, teachers teacher.Repository, seed core.Seed, logger core.Logger) error {
	n, err := acts.CountActivities()
	if err != nil {
		return errors.Wrap(err, "counting activities")
	}
	if n == 0 {
		for _, as := range seed.Activities {
			a := activity.Activity{
				Name:        as.Name,
				Description: as.Description,
				Schedule:    as.Schedule,
				ScheduleDetails: activity.ScheduleDetails{
					Days:      as.ScheduleDetails.Days,
					StartTime: as.ScheduleDetails.StartTime,
					EndTime:   as.ScheduleDetails.EndTime,
				},
				MaxParticipants: as.MaxParticipants,
				Participants:    make([]string, 0, len(as.Participants)),
			}
			for _, email := range as.Participants {
				a.Participants = append(a.Participants, core.CleanString(email, true))
			}
			if _, err := acts.CreateActivity(a); err != nil {
				return errors.Wrapf(err, "seeding activity %q", as.Name)
			}
		}
		logger.Info(fmt.Sprintf("seeded %d activities", len(seed.Activities)))
	}

	n, err = teachers.CountTeachers()
	if err != nil {
		return errors.Wrap(err, "counting teachers")
	}
	if n == 0 {
		for _, ts := range seed.Teachers {
			if err := teacher.CheckHash(ts.Password); err != nil {
				return errors.Wrapf(err, "password of %q", ts.Username)
			}
			t := teacher.Teacher{
				Username:     core.CleanString(ts.Username, true),
				DisplayName:  ts.DisplayName,
				Role:         ts.Role,
				PasswordHash: ts.Password,
			}
			if !teacher.IsHashed(ts.Password) {
				if err := t.SetPassword(ts.Password); err != nil {
					return errors.Wrapf(err, "hashing password of %q", ts.Username)
				}
			}
			if _, err := teachers.CreateTeacher(t); err != nil {
				return errors.Wrapf(err, "seeding teacher %q", ts.Username)
			}
		}
		logger.Info(fmt.Sprintf("seeded %d teachers", len(seed.Teachers)))
	}
	return nil
}
