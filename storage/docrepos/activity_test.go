package docrepos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergington/activities/core/activity"
	"github.com/mergington/activities/storage/docstore"
	testutil "github.com/mergington/activities/tests"
)

func newActivityRepo() (activity.Repository, *docstore.Store) {
	store := docstore.New(testutil.NewLogger())
	return NewActivityRepository(store), store
}

func TestActivityRepository_GetActivity(t *testing.T) {
	repo, store := newActivityRepo()
	chess := testutil.CreateActivity(t, repo, "Chess Club", 12, []string{"Monday", "Friday"}, "15:15", "16:45", "michael@mergington.edu")

	got, err := repo.GetActivity("Chess Club")
	require.NoError(t, err)
	assert.Equal(t, chess, got)

	_, err = repo.GetActivity("chess club")
	assert.Equal(t, activity.ErrNotFound, err)

	// stored shape
	doc, err := store.Collection(ActivitiesCollection).FindOne(docstore.ByID("Chess Club"))
	require.NoError(t, err)
	days, ok := doc.Get("schedule_details.days")
	require.True(t, ok)
	assert.True(t, docstore.Strings("Monday", "Friday").Equal(days))
	n, _ := doc["max_participants"].AsNumber()
	assert.Equal(t, 12.0, n)
}

func TestActivityRepository_CreateActivity(t *testing.T) {
	repo, _ := newActivityRepo()

	_, err := repo.CreateActivity(activity.Activity{Name: "Art Club"})
	require.NoError(t, err)

	got, err := repo.GetActivity("Art Club")
	require.NoError(t, err)
	assert.NotNil(t, got.Participants)
	assert.NotNil(t, got.ScheduleDetails.Days)

	// participants can be pushed even though none were given
	require.NoError(t, repo.AddParticipant("Art Club", "amelia@mergington.edu"))
	got, err = repo.GetActivity("Art Club")
	require.NoError(t, err)
	assert.Equal(t, []string{"amelia@mergington.edu"}, got.Participants)

	// overwrite
	_, err = repo.CreateActivity(activity.Activity{Name: "Art Club", MaxParticipants: 3})
	require.NoError(t, err)
	got, err = repo.GetActivity("Art Club")
	require.NoError(t, err)
	assert.Equal(t, 3, got.MaxParticipants)
	assert.Empty(t, got.Participants)

	n, err := repo.CountActivities()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestActivityRepository_QueryActivities(t *testing.T) {
	repo, _ := newActivityRepo()

	acts, err := repo.QueryActivities()
	require.NoError(t, err)
	assert.Empty(t, acts)

	names := []string{"Soccer Team", "Art Club", "Chess Club"}
	for _, name := range names {
		testutil.CreateActivity(t, repo, name, 10, []string{"Monday"}, "15:00", "16:00")
	}
	acts, err = repo.QueryActivities()
	require.NoError(t, err)
	require.Len(t, acts, 3)
	for i, a := range acts {
		assert.Equal(t, names[i], a.Name)
	}
}

func TestActivityRepository_participants(t *testing.T) {
	repo, _ := newActivityRepo()
	testutil.CreateActivity(t, repo, "Chess Club", 12, []string{"Monday"}, "15:15", "16:45", "michael@mergington.edu")

	require.NoError(t, repo.AddParticipant("Chess Club", "emma@mergington.edu"))
	require.NoError(t, repo.AddParticipant("Chess Club", "sophia@mergington.edu"))
	require.NoError(t, repo.RemoveParticipant("Chess Club", "michael@mergington.edu"))
	require.NoError(t, repo.RemoveParticipant("Chess Club", "nobody@mergington.edu"))

	got, err := repo.GetActivity("Chess Club")
	require.NoError(t, err)
	assert.Equal(t, []string{"emma@mergington.edu", "sophia@mergington.edu"}, got.Participants)

	assert.Equal(t, activity.ErrNotFound, repo.AddParticipant("Knitting Club", "emma@mergington.edu"))
	assert.Equal(t, activity.ErrNotFound, repo.RemoveParticipant("Knitting Club", "emma@mergington.edu"))
}

func TestActivityRepository_Days(t *testing.T) {
	repo, _ := newActivityRepo()

	days, err := repo.Days()
	require.NoError(t, err)
	assert.Equal(t, []string{}, days)

	testutil.CreateActivity(t, repo, "Chess Club", 12, []string{"Monday", "Friday"}, "15:15", "16:45")
	testutil.CreateActivity(t, repo, "Weekend Robotics Workshop", 15, []string{"Saturday"}, "10:00", "14:00")
	testutil.CreateActivity(t, repo, "Morning Fitness", 30, []string{"Monday", "Wednesday", "Friday"}, "06:30", "07:45")
	testutil.CreateActivity(t, repo, "Study Hall", 0, nil, "", "")

	days, err = repo.Days()
	require.NoError(t, err)
	assert.Equal(t, []string{"Friday", "Monday", "Saturday", "Wednesday"}, days)
}
