package docstore

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(docs []Document) []interface{} {
	res := make([]interface{}, 0, len(docs))
	for _, d := range docs {
		res = append(res, d[IDField].Interface())
	}
	return res
}

func TestCollection_Aggregate(t *testing.T) {
	students := []Document{
		{IDField: String("1"), "students": Strings("x", "y")},
		{IDField: String("2"), "students": Strings()},
		{IDField: String("3"), "students": Strings("x")},
	}
	activities := []Document{
		{IDField: String("Chess Club"), "schedule_details": Doc(Document{"days": Strings("Monday", "Friday")})},
		{IDField: String("Art Club"), "schedule_details": Doc(Document{"days": Strings("Thursday")})},
		{IDField: String("Drama Club"), "schedule_details": Doc(Document{"days": Strings("Monday", "Wednesday")})},
		{IDField: String("Tutoring"), "schedule_details": Doc(Document{})},
		{IDField: String("Study Hall")},
	}
	numbers := []Document{
		{IDField: String("a"), "n": Int(3)},
		{IDField: String("b"), "n": Int(1)},
		{IDField: String("c")},
		{IDField: String("d"), "n": Int(2)},
	}

	tests := []struct {
		name     string
		docs     []Document
		pipeline Pipeline
		want     []interface{}
	}{
		{
			name:     "empty pipeline",
			docs:     numbers,
			pipeline: Pipeline{},
			want:     []interface{}{"a", "b", "c", "d"},
		},
		{
			name:     "unwind",
			docs:     students,
			pipeline: Pipeline{Unwind{Path: "$students"}},
			want:     []interface{}{"1", "1", "3"},
		},
		{
			name:     "unwind & group",
			docs:     students,
			pipeline: Pipeline{Unwind{Path: "$students"}, Group{Field: "$students"}},
			want:     []interface{}{"x", "y"},
		},
		{
			name:     "distinct days",
			docs:     activities,
			pipeline: MustParsePipeline(daysStages()...),
			want:     []interface{}{"Friday", "Monday", "Thursday", "Wednesday"},
		},
		{
			name:     "distinct days, descending",
			docs:     activities,
			pipeline: Pipeline{Unwind{Path: "schedule_details.days"}, Group{Field: "$schedule_details.days"}, Sort{Field: IDField, Order: Descending}},
			want:     []interface{}{"Wednesday", "Thursday", "Monday", "Friday"},
		},
		{
			name:     "sort descending, missing field sorts as empty string",
			docs:     numbers,
			pipeline: Pipeline{Sort{Field: "n", Order: Descending}},
			want:     []interface{}{"c", "a", "d", "b"},
		},
		{
			name:     "sort ascending",
			docs:     numbers,
			pipeline: Pipeline{Sort{Field: "n", Order: Ascending}},
			want:     []interface{}{"b", "d", "a", "c"},
		},
		{
			name:     "sort is stable",
			docs:     students,
			pipeline: Pipeline{Unwind{Path: "students"}, Sort{Field: "students", Order: Ascending}},
			want:     []interface{}{"1", "3", "1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coll, _ := newTestCollection(t, tt.docs...)
			assert.Equal(t, tt.want, ids(coll.Aggregate(tt.pipeline)))
		})
	}

	t.Run("unwind keeps the other fields", func(t *testing.T) {
		coll, _ := newTestCollection(t, activities[0])
		docs := coll.Aggregate(Pipeline{Unwind{Path: "$schedule_details.days"}})
		require.Len(t, docs, 2)
		assert.Equal(t, `{"_id":"Chess Club","schedule_details":{"days":"Monday"}}`, Doc(docs[0]).String())
		assert.Equal(t, `{"_id":"Chess Club","schedule_details":{"days":"Friday"}}`, Doc(docs[1]).String())
	})

	t.Run("aggregation does not mutate the collection", func(t *testing.T) {
		coll, _ := newTestCollection(t, activities...)
		coll.Aggregate(MustParsePipeline(daysStages()...))

		chess, err := coll.FindOne(ByID("Chess Club"))
		require.NoError(t, err)
		assert.True(t, activities[0].Equal(chess))
	})

	t.Run("group drops documents without the key", func(t *testing.T) {
		coll, _ := newTestCollection(t, numbers...)
		got := coll.Aggregate(Pipeline{Group{Field: "$n"}})
		assert.Equal(t, []interface{}{3.0, 1.0, 2.0}, ids(got))
		for _, d := range got {
			assert.Len(t, d, 1)
		}
	})
}

func daysStages() []Document {
	return []Document{
		{StageUnwind: String("$schedule_details.days")},
		{StageGroup: Doc(Document{IDField: String("$schedule_details.days")})},
		{StageSort: Doc(Document{IDField: Int(Ascending)})},
	}
}

func TestParsePipeline(t *testing.T) {
	tests := []struct {
		name    string
		stages  []Document
		want    Pipeline
		wantErr error
	}{
		{name: "no stages", want: Pipeline{}},
		{name: "days", stages: daysStages(), want: Pipeline{
			Unwind{Path: "$schedule_details.days"},
			Group{Field: "$schedule_details.days"},
			Sort{Field: IDField, Order: Ascending},
		}},
		{
			name:   "unwind document form & descending sort",
			stages: []Document{{StageUnwind: Doc(Document{"path": String("$tags")})}, {StageSort: Doc(Document{"tags": Int(-1)})}},
			want:   Pipeline{Unwind{Path: "$tags"}, Sort{Field: "tags", Order: Descending}},
		},
		{name: "unknown stage", stages: []Document{{"$match": Doc(Document{})}}, wantErr: ErrUnsupportedStage},
		{name: "two keys in a stage", stages: []Document{{StageUnwind: String("$a"), StageSort: Doc(Document{"a": Int(1)})}}, wantErr: ErrMalformedStage},
		{name: "unwind without path", stages: []Document{{StageUnwind: Int(1)}}, wantErr: ErrMalformedStage},
		{name: "group on a literal", stages: []Document{{StageGroup: Doc(Document{IDField: String("days")})}}, wantErr: ErrUnsupportedGroupKey},
		{
			name:    "group with accumulators",
			stages:  []Document{{StageGroup: Doc(Document{IDField: String("$days"), "count": Doc(Document{"$sum": Int(1)})})}},
			wantErr: ErrUnsupportedGroupKey,
		},
		{name: "sort on two keys", stages: []Document{{StageSort: Doc(Document{"a": Int(1), "b": Int(1)})}}, wantErr: ErrUnsupportedStage},
		{name: "sort without keys", stages: []Document{{StageSort: Doc(Document{})}}, wantErr: ErrMalformedStage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePipeline(tt.stages...)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, errors.Cause(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Panics(t, func() { MustParsePipeline(Document{"$lookup": Null()}) })
}
