package docrepos

import (
	"github.com/pkg/errors"

	"github.com/mergington/activities/core/teacher"
	"github.com/mergington/activities/storage/docstore"
)

const TeachersCollection = "teachers"

// teacher document fields; the username is kept in the body as well as in _id
const (
	usernameField    = "username"
	displayNameField = "display_name"
	roleField        = "role"
	passwordField    = "password"
)

type teacherRepository struct {
	coll *docstore.Collection
}

var _ teacher.Repository = (*teacherRepository)(nil)

func NewTeacherRepository(store *docstore.Store) teacher.Repository {
	return &teacherRepository{coll: store.Collection(TeachersCollection)}
}

func (repo *teacherRepository) GetTeacher(username string) (teacher.Teacher, error) {
	doc, err := repo.coll.FindOne(docstore.ByID(username))
	if err != nil {
		if err == docstore.ErrNotFound {
			return teacher.Teacher{}, teacher.ErrNotFound
		}
		return teacher.Teacher{}, err
	}
	return teacherFromDocument(doc), nil
}

func (repo *teacherRepository) CreateTeacher(t teacher.Teacher) (teacher.Teacher, error) {
	if _, err := repo.coll.InsertOne(teacherToDocument(t)); err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "inserting teacher")
	}
	return t, nil
}

func (repo *teacherRepository) CountTeachers() (int, error) {
	return repo.coll.CountDocuments(nil), nil
}

func teacherToDocument(t teacher.Teacher) docstore.Document {
	return docstore.Document{
		docstore.IDField: docstore.String(t.Username),
		usernameField:    docstore.String(t.Username),
		displayNameField: docstore.String(t.DisplayName),
		roleField:        docstore.String(t.Role),
		passwordField:    docstore.String(t.PasswordHash),
	}
}

func teacherFromDocument(doc docstore.Document) teacher.Teacher {
	str := func(field string) string {
		s, _ := doc[field].AsString()
		return s
	}
	t := teacher.Teacher{
		Username:     str(usernameField),
		DisplayName:  str(displayNameField),
		Role:         str(roleField),
		PasswordHash: str(passwordField),
	}
	if t.Username == "" {
		t.Username, _ = doc.ID()
	}
	return t
}
