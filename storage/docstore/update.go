package docstore

import (
	"sort"

	"github.com/pkg/errors"
)

// Update operator names, applied in this order by Collection.UpdateOne.
const (
	OpPush     = "$push"
	OpPull     = "$pull"
	OpAddToSet = "$addToSet"
	OpPullAll  = "$pullAll"

	opEach = "$each"
)

var (
	ErrUnsupportedOperator = errors.New("unsupported update operator")
	ErrMalformedUpdate     = errors.New("malformed update")
)

// AddToSet is the argument of a $addToSet operator for one field.
type AddToSet struct {
	Values []Value
	Each   bool // {$each: [...]} form
}

// One adds a single value to a set.
func One(v Value) AddToSet { return AddToSet{Values: []Value{v}} }

// Each adds every listed value to a set.
func Each(vs ...Value) AddToSet { return AddToSet{Values: vs, Each: true} }

// Update is the closed set of update operators supported by the store.
// Every map is keyed by top-level field name.
type Update struct {
	Push     map[string]Value
	Pull     map[string]Value
	AddToSet map[string]AddToSet
	PullAll  map[string][]Value
}

func (u Update) IsEmpty() bool {
	return len(u.Push) == 0 && len(u.Pull) == 0 && len(u.AddToSet) == 0 && len(u.PullAll) == 0
}

// UpdateResult reports how many documents an update modified (0 or 1).
type UpdateResult struct {
	MatchedCount  int
	ModifiedCount int
}

// ParseUpdate converts a Mongo-shaped update document, e.g.
// {"$push": {"participants": "a@b.c"}}, into an Update.
// Operators outside the supported set are rejected.
func ParseUpdate(raw Document) (Update, error) {
	var u Update
	for _, op := range raw.keys() {
		fields, ok := raw[op].AsDocument()
		if !ok {
			return Update{}, errors.Wrapf(ErrMalformedUpdate, "%s expects a document", op)
		}
		switch op {
		case OpPush:
			u.Push = make(map[string]Value, len(fields))
			for f, v := range fields {
				u.Push[f] = v
			}
		case OpPull:
			u.Pull = make(map[string]Value, len(fields))
			for f, v := range fields {
				u.Pull[f] = v
			}
		case OpAddToSet:
			u.AddToSet = make(map[string]AddToSet, len(fields))
			for f, v := range fields {
				if d, ok := v.AsDocument(); ok {
					if each, ok := d[opEach]; ok {
						vs, ok := each.AsList()
						if !ok {
							return Update{}, errors.Wrapf(ErrMalformedUpdate, "%s.%s.%s expects a list", op, f, opEach)
						}
						u.AddToSet[f] = Each(vs...)
						continue
					}
				}
				u.AddToSet[f] = One(v)
			}
		case OpPullAll:
			u.PullAll = make(map[string][]Value, len(fields))
			for f, v := range fields {
				vs, ok := v.AsList()
				if !ok {
					return Update{}, errors.Wrapf(ErrMalformedUpdate, "%s.%s expects a list", op, f)
				}
				u.PullAll[f] = vs
			}
		default:
			return Update{}, errors.Wrapf(ErrUnsupportedOperator, "%q", op)
		}
	}
	return u, nil
}

// apply mutates doc in place. Fields holding a non-list value are skipped and
// reported through skip.
func (u Update) apply(doc Document, skip func(op, field string)) {
	for _, f := range sortedKeys(u.Push) {
		v := u.Push[f]
		cur, ok := doc[f]
		if !ok {
			doc[f] = List(v.Clone())
			continue
		}
		l, ok := cur.AsList()
		if !ok {
			skip(OpPush, f)
			continue
		}
		doc[f] = Value{kind: KindList, l: append(l, v.Clone())}
	}

	for _, f := range sortedKeys(u.Pull) {
		v := u.Pull[f]
		cur, ok := doc[f]
		if !ok {
			continue
		}
		l, ok := cur.AsList()
		if !ok {
			skip(OpPull, f)
			continue
		}
		if i := indexOf(l, v); i >= 0 {
			doc[f] = Value{kind: KindList, l: append(l[:i:i], l[i+1:]...)}
		}
	}

	addKeys := make([]string, 0, len(u.AddToSet))
	for f := range u.AddToSet {
		addKeys = append(addKeys, f)
	}
	sort.Strings(addKeys)
	for _, f := range addKeys {
		add := u.AddToSet[f]
		cur, ok := doc[f]
		if !ok {
			// initialised as given: no dedup within the batch
			doc[f] = List(cloneValues(add.Values)...)
			continue
		}
		l, ok := cur.AsList()
		if !ok {
			skip(OpAddToSet, f)
			continue
		}
		for _, v := range add.Values {
			if indexOf(l, v) < 0 {
				l = append(l, v.Clone())
			}
		}
		doc[f] = Value{kind: KindList, l: l}
	}

	pullKeys := make([]string, 0, len(u.PullAll))
	for f := range u.PullAll {
		pullKeys = append(pullKeys, f)
	}
	sort.Strings(pullKeys)
	for _, f := range pullKeys {
		cur, ok := doc[f]
		if !ok {
			continue
		}
		l, ok := cur.AsList()
		if !ok {
			skip(OpPullAll, f)
			continue
		}
		kept := make([]Value, 0, len(l))
		for _, v := range l {
			if indexOf(u.PullAll[f], v) < 0 {
				kept = append(kept, v)
			}
		}
		doc[f] = Value{kind: KindList, l: kept}
	}
}

func indexOf(l []Value, v Value) int {
	for i, item := range l {
		if item.Equal(v) {
			return i
		}
	}
	return -1
}

func cloneValues(vs []Value) []Value {
	c := make([]Value, len(vs))
	for i, v := range vs {
		c[i] = v.Clone()
	}
	return c
}

func sortedKeys(m map[string]Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
