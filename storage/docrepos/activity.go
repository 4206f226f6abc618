package docrepos

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/mergington/activities/core/activity"
	"github.com/mergington/activities/storage/docstore"
)

const (
	ActivitiesCollection = "activities"
	participantsField    = "participants"
)

// daysPipeline lists the distinct meeting days of all activities.
var daysPipeline = docstore.MustParsePipeline(
	docstore.Document{docstore.StageUnwind: docstore.String("$schedule_details.days")},
	docstore.Document{docstore.StageGroup: docstore.Doc(docstore.Document{docstore.IDField: docstore.String("$schedule_details.days")})},
	docstore.Document{docstore.StageSort: docstore.Doc(docstore.Document{docstore.IDField: docstore.Int(docstore.Ascending)})},
)

type activityRepository struct {
	coll *docstore.Collection
}

var _ activity.Repository = (*activityRepository)(nil)

func NewActivityRepository(store *docstore.Store) activity.Repository {
	return &activityRepository{coll: store.Collection(ActivitiesCollection)}
}

func (repo *activityRepository) GetActivity(name string) (activity.Activity, error) {
	doc, err := repo.coll.FindOne(docstore.ByID(name))
	if err != nil {
		if err == docstore.ErrNotFound {
			return activity.Activity{}, activity.ErrNotFound
		}
		return activity.Activity{}, err
	}
	return activityFromDocument(doc)
}

func (repo *activityRepository) QueryActivities() ([]activity.Activity, error) {
	docs := repo.coll.Find(nil)
	acts := make([]activity.Activity, 0, len(docs))
	for _, doc := range docs {
		a, err := activityFromDocument(doc)
		if err != nil {
			return nil, err
		}
		acts = append(acts, a)
	}
	return acts, nil
}

func (repo *activityRepository) CreateActivity(a activity.Activity) (activity.Activity, error) {
	doc, err := activityToDocument(a)
	if err != nil {
		return activity.Activity{}, err
	}
	if _, err := repo.coll.InsertOne(doc); err != nil {
		return activity.Activity{}, errors.Wrap(err, "inserting activity")
	}
	return a, nil
}

func (repo *activityRepository) CountActivities() (int, error) {
	return repo.coll.CountDocuments(nil), nil
}

func (repo *activityRepository) AddParticipant(name, email string) error {
	return repo.updateParticipants(name, docstore.OpPush, email)
}

func (repo *activityRepository) RemoveParticipant(name, email string) error {
	return repo.updateParticipants(name, docstore.OpPull, email)
}

// updateParticipants applies {op: {"participants": email}} to the named activity.
func (repo *activityRepository) updateParticipants(name, op, email string) error {
	update, err := docstore.ParseUpdate(docstore.Document{
		op: docstore.Doc(docstore.Document{participantsField: docstore.String(email)}),
	})
	if err != nil {
		return errors.Wrapf(err, "building %s update", op)
	}
	res := repo.coll.UpdateOne(docstore.ByID(name), update)
	if res.ModifiedCount == 0 {
		return activity.ErrNotFound
	}
	return nil
}

func (repo *activityRepository) Days() ([]string, error) {
	docs := repo.coll.Aggregate(daysPipeline)
	days := make([]string, 0, len(docs))
	for _, doc := range docs {
		if day, ok := doc.ID(); ok {
			days = append(days, day)
		}
	}
	return days, nil
}

func activityToDocument(a activity.Activity) (docstore.Document, error) {
	// participants must be stored as a list for $push and $pull to apply
	if a.Participants == nil {
		a.Participants = []string{}
	}
	if a.ScheduleDetails.Days == nil {
		a.ScheduleDetails.Days = []string{}
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, errors.Wrap(err, "encoding activity")
	}
	var doc docstore.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "decoding activity document")
	}
	doc[docstore.IDField] = docstore.String(a.Name)
	return doc, nil
}

func activityFromDocument(doc docstore.Document) (activity.Activity, error) {
	var a activity.Activity
	data, err := json.Marshal(doc)
	if err != nil {
		return a, errors.Wrap(err, "encoding activity document")
	}
	if err := json.Unmarshal(data, &a); err != nil {
		return a, errors.Wrap(err, "decoding activity")
	}
	a.Name, _ = doc.ID()
	return a, nil
}
