package docstore

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{name: "nulls", a: Null(), b: Value{}, want: true},
		{name: "int & float", a: Int(2), b: Number(2.0), want: true},
		{name: "number & string", a: Int(2), b: String("2"), want: false},
		{name: "bools", a: Bool(true), b: Bool(false), want: false},
		{name: "lists", a: Strings("a", "b"), b: List(String("a"), String("b")), want: true},
		{name: "list order", a: Strings("a", "b"), b: Strings("b", "a"), want: false},
		{name: "list length", a: Strings("a"), b: Strings("a", "a"), want: false},
		{
			name: "nested documents",
			a:    Doc(Document{"days": Strings("Monday"), "start_time": String("15:15")}),
			b:    Doc(Document{"start_time": String("15:15"), "days": Strings("Monday")}),
			want: true,
		},
		{name: "document keys", a: Doc(Document{"a": Null()}), b: Doc(Document{"b": Null()}), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
			assert.Equal(t, tt.want, tt.b.Equal(tt.a))
		})
	}
}

func TestValue_Compare(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want int
	}{
		{name: "numbers", a: Int(1), b: Number(1.5), want: -1},
		{name: "strings", a: String("Monday"), b: String("Friday"), want: 1},
		{name: "equal strings", a: String("x"), b: String("x"), want: 0},
		{name: "null before number", a: Null(), b: Int(0), want: -1},
		{name: "number before string", a: Int(100), b: String(""), want: -1},
		{name: "bools", a: Bool(false), b: Bool(true), want: -1},
		{name: "list prefix", a: Strings("a"), b: Strings("a", "b"), want: -1},
		{name: "list items", a: Strings("b"), b: Strings("a", "b"), want: 1},
		{name: "documents", a: Doc(Document{"a": Int(1)}), b: Doc(Document{"a": Int(2)}), want: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Compare(tt.b))
			assert.Equal(t, -tt.want, tt.b.Compare(tt.a))
		})
	}
}

func TestValue_Clone(t *testing.T) {
	orig := Doc(Document{"tags": Strings("a"), "details": Doc(Document{"days": Strings("Monday")})})
	c := orig.Clone()

	d, _ := c.AsDocument()
	d["tags"] = Strings("b")
	details, _ := d["details"].AsDocument()
	details["days"] = Strings()

	assert.Equal(t, `{"details":{"days":["Monday"]},"tags":["a"]}`, orig.String())
}

func TestValue_JSON(t *testing.T) {
	raw := `{"_id":"Chess Club","max_participants":12,"open":true,"participants":["michael@mergington.edu"],"room":null,` +
		`"schedule_details":{"days":["Monday","Friday"],"end_time":"16:45","start_time":"15:15"}}`

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	id, ok := doc.ID()
	assert.True(t, ok)
	assert.Equal(t, "Chess Club", id)
	assert.True(t, doc["room"].IsNull())
	n, ok := doc["max_participants"].AsNumber()
	assert.True(t, ok)
	assert.Equal(t, 12.0, n)
	days, ok := doc.Get("schedule_details.days")
	assert.True(t, ok)
	assert.True(t, Strings("Monday", "Friday").Equal(days))
	_, ok = doc.Get("schedule_details.days.0")
	assert.False(t, ok)
	_, ok = doc.Get("$schedule_details.start_time")
	assert.True(t, ok)

	b, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(b))

	_, err = json.Marshal(Number(math.NaN()))
	assert.Error(t, err)
	assert.Equal(t, "[]", List().String())
}

func TestValueOf(t *testing.T) {
	v, err := ValueOf(map[string]interface{}{
		"n":    7,
		"f":    float32(0.5),
		"tags": []string{"a"},
		"yaml": map[interface{}]interface{}{"k": []interface{}{int64(1), nil}},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"f":0.5,"n":7,"tags":["a"],"yaml":{"k":[1,null]}}`, v.String())

	_, err = ValueOf(struct{}{})
	assert.Equal(t, ErrUnsupportedType, errors.Cause(err))
	_, err = ValueOf(map[interface{}]interface{}{1: "one"})
	assert.Equal(t, ErrUnsupportedType, errors.Cause(err))
	_, err = ValueOf([]interface{}{"ok", make(chan int)})
	assert.Equal(t, ErrUnsupportedType, errors.Cause(err))
}
