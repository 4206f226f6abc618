package docstore

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Aggregation stage names.
const (
	StageUnwind = "$unwind"
	StageGroup  = "$group"
	StageSort   = "$sort"
)

// Sort orders.
const (
	Ascending  = 1
	Descending = -1
)

var (
	ErrUnsupportedStage    = errors.New("unsupported pipeline stage")
	ErrUnsupportedGroupKey = errors.New("unsupported group key")
	ErrMalformedStage      = errors.New("malformed pipeline stage")
)

// Stage is one aggregation step. The set of stages is closed: Unwind, Group and Sort.
type Stage interface {
	apply(docs []Document) []Document
	name() string
}

// Pipeline is an ordered sequence of stages.
type Pipeline []Stage

// Unwind emits one copy of each document per element of the list found at Path.
type Unwind struct {
	Path string // dotted field path, with or without the "$" prefix
}

// Group buckets documents by the value found at Field and replaces the working
// set with one {_id: key} document per bucket, in first-seen order.
type Group struct {
	Field string // dotted field path, with or without the "$" prefix
}

// Sort orders documents by a single field. Missing fields sort as "".
type Sort struct {
	Field string
	Order int // Descending (-1) or anything else for ascending
}

func (Unwind) name() string { return StageUnwind }
func (Group) name() string  { return StageGroup }
func (Sort) name() string   { return StageSort }

func (s Unwind) apply(docs []Document) []Document {
	parts := splitPath(s.Path)
	out := make([]Document, 0, len(docs))
	for _, doc := range docs {
		v, ok := doc.resolve(parts)
		if !ok {
			continue // a missing segment unwinds as an empty list
		}
		items, ok := v.AsList()
		if !ok {
			continue
		}
		for _, item := range items {
			c := doc.Clone()
			c.set(parts, item.Clone())
			out = append(out, c)
		}
	}
	return out
}

func (s Group) apply(docs []Document) []Document {
	parts := splitPath(s.Field)
	seen := make(map[string]bool)
	out := make([]Document, 0)
	for _, doc := range docs {
		v, ok := doc.resolve(parts)
		if !ok || v.IsNull() {
			continue
		}
		k := v.key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, Document{IDField: v.Clone()})
	}
	return out
}

func (s Sort) apply(docs []Document) []Document {
	parts := splitPath(s.Field)
	keyOf := func(d Document) Value {
		if v, ok := d.resolve(parts); ok {
			return v
		}
		return String("")
	}
	sort.SliceStable(docs, func(i, j int) bool {
		c := keyOf(docs[i]).Compare(keyOf(docs[j]))
		if s.Order == Descending {
			return c > 0
		}
		return c < 0
	})
	return docs
}

// MustParsePipeline is like ParsePipeline but panics on error.
// It is meant for pipelines declared at package level.
func MustParsePipeline(stages ...Document) Pipeline {
	p, err := ParsePipeline(stages...)
	if err != nil {
		panic(err)
	}
	return p
}

// ParsePipeline converts Mongo-shaped stage documents into a Pipeline, e.g.
//
//	{"$unwind": "$schedule_details.days"}
//	{"$group": {"_id": "$schedule_details.days"}}
//	{"$sort": {"_id": 1}}
//
// Stages and shapes outside the supported set are rejected. In particular a
// $group carrying accumulators, e.g. {"_id": "$x", "n": {"$sum": 1}}, fails with
// ErrUnsupportedGroupKey instead of grouping on _id and dropping the extra keys.
func ParsePipeline(stages ...Document) (Pipeline, error) {
	p := make(Pipeline, 0, len(stages))
	for i, raw := range stages {
		if len(raw) != 1 {
			return nil, errors.Wrapf(ErrMalformedStage, "stage %d must have exactly one key", i)
		}
		for name, arg := range raw {
			stage, err := parseStage(name, arg)
			if err != nil {
				return nil, errors.Wrapf(err, "stage %d", i)
			}
			p = append(p, stage)
		}
	}
	return p, nil
}

func parseStage(name string, arg Value) (Stage, error) {
	switch name {
	case StageUnwind:
		if path, ok := arg.AsString(); ok {
			return Unwind{Path: path}, nil
		}
		if d, ok := arg.AsDocument(); ok {
			if path, ok := d["path"].AsString(); ok && len(d) == 1 {
				return Unwind{Path: path}, nil
			}
		}
		return nil, errors.Wrapf(ErrMalformedStage, "%s expects a field path", name)

	case StageGroup:
		d, ok := arg.AsDocument()
		if !ok {
			return nil, errors.Wrapf(ErrMalformedStage, "%s expects a document", name)
		}
		if len(d) != 1 {
			return nil, errors.Wrapf(ErrUnsupportedGroupKey, "%s accumulators are not supported", name)
		}
		key, ok := d[IDField].AsString()
		if !ok || !strings.HasPrefix(key, "$") {
			return nil, errors.Wrapf(ErrUnsupportedGroupKey, "%s._id must be a field reference", name)
		}
		return Group{Field: key}, nil

	case StageSort:
		d, ok := arg.AsDocument()
		if !ok || len(d) == 0 {
			return nil, errors.Wrapf(ErrMalformedStage, "%s expects a document", name)
		}
		if len(d) > 1 {
			return nil, errors.Wrapf(ErrUnsupportedStage, "%s on more than one key", name)
		}
		for field, order := range d {
			s := Sort{Field: field, Order: Ascending}
			if n, ok := order.AsNumber(); ok && n == Descending {
				s.Order = Descending
			}
			return s, nil
		}
	}
	return nil, errors.Wrapf(ErrUnsupportedStage, "%q", name)
}
