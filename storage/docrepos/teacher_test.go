package docrepos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergington/activities/core/teacher"
	"github.com/mergington/activities/storage/docstore"
	testutil "github.com/mergington/activities/tests"
)

func TestTeacherRepository(t *testing.T) {
	testutil.FastPasswordHashing(t)

	store := docstore.New(testutil.NewLogger())
	repo := NewTeacherRepository(store)

	n, err := repo.CountTeachers()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	chen := testutil.CreateTeacher(t, repo, "mchen", "Mr. Chen", teacher.RoleTeacher, "chess456")

	got, err := repo.GetTeacher("mchen")
	require.NoError(t, err)
	assert.Equal(t, chen, got)
	assert.NoError(t, got.CheckPassword("chess456"))

	_, err = repo.GetTeacher("MChen")
	assert.Equal(t, teacher.ErrNotFound, err)

	// documents written by other tools may only carry the _id
	_, err = store.Collection(TeachersCollection).InsertOne(docstore.Document{
		docstore.IDField: docstore.String("legacy"),
		"role":           docstore.String(teacher.RoleAdmin),
	})
	require.NoError(t, err)
	legacy, err := repo.GetTeacher("legacy")
	require.NoError(t, err)
	assert.Equal(t, teacher.Teacher{Username: "legacy", Role: teacher.RoleAdmin}, legacy)

	n, err = repo.CountTeachers()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
