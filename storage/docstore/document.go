package docstore

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// IDField is the reserved identifier field. It is the storage key of a document
// and is only present in documents surfaced by read operations.
const IDField = "_id"

// Document is an open mapping of field names to Values.
type Document map[string]Value

// DocumentOf converts a decoded JSON / YAML object into a Document.
func DocumentOf(m map[string]interface{}) (Document, error) {
	d := make(Document, len(m))
	for k, x := range m {
		v, err := ValueOf(x)
		if err != nil {
			return nil, errors.Wrapf(err, "%s", k)
		}
		d[k] = v
	}
	return d, nil
}

// ID returns the document identifier when it is a string.
func (d Document) ID() (string, bool) {
	v, ok := d[IDField]
	if !ok {
		return "", false
	}
	return v.AsString()
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	c := make(Document, len(d))
	for k, v := range d {
		c[k] = v.Clone()
	}
	return c
}

func (d Document) Equal(o Document) bool {
	if len(d) != len(o) {
		return false
	}
	for k, v := range d {
		ov, ok := o[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Map converts d to plain Go values.
func (d Document) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(d))
	for k, v := range d {
		m[k] = v.Interface()
	}
	return m
}

// Get resolves a dotted field path, descending one nested document per segment.
func (d Document) Get(path string) (Value, bool) {
	return d.resolve(splitPath(path))
}

func (d Document) resolve(parts []string) (Value, bool) {
	cur := Doc(d)
	for _, part := range parts {
		sub, ok := cur.AsDocument()
		if !ok {
			return Value{}, false
		}
		if cur, ok = sub[part]; !ok {
			return Value{}, false
		}
	}
	return cur, true
}

// set assigns v at parts, provided every intermediate segment is a document.
func (d Document) set(parts []string, v Value) bool {
	cur := d
	for _, part := range parts[:len(parts)-1] {
		sub, ok := cur[part].AsDocument()
		if !ok {
			return false
		}
		cur = sub
	}
	cur[parts[len(parts)-1]] = v
	return true
}

func (d Document) keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// withID returns a copy of d with the identifier reattached.
func (d Document) withID(id string) Document {
	c := d.Clone()
	if c == nil {
		c = make(Document, 1)
	}
	c[IDField] = String(id)
	return c
}

// splitPath turns a field reference ("$a.b" or "a.b") into path segments.
func splitPath(path string) []string {
	return strings.Split(strings.ReplaceAll(path, "$", ""), ".")
}
