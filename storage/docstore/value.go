package docstore

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Kind identifies the variant held by a Value.
// Kinds are declared in comparison order: values of different kinds sort by Kind.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindString
	KindDocument
	KindList
	KindBool
)

var kindNames = [...]string{"null", "number", "string", "document", "list", "bool"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ErrUnsupportedType is returned by ValueOf for Go values that have no document representation.
var ErrUnsupportedType = errors.New("unsupported value type")

// Value is a document field value: null, bool, number, string, list or nested Document.
// The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	l    []Value
	d    Document
}

func Null() Value              { return Value{} }
func Bool(b bool) Value        { return Value{kind: KindBool, b: b} }
func Number(n float64) Value   { return Value{kind: KindNumber, n: n} }
func Int(i int) Value          { return Value{kind: KindNumber, n: float64(i)} }
func String(s string) Value    { return Value{kind: KindString, s: s} }
func Doc(d Document) Value     { return Value{kind: KindDocument, d: d} }
func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsNull() bool   { return v.kind == KindNull }
func (v Value) IsList() bool   { return v.kind == KindList }
func (v Value) IsNumber() bool { return v.kind == KindNumber }

// List returns a list Value holding a copy of vs.
func List(vs ...Value) Value {
	l := make([]Value, len(vs))
	copy(l, vs)
	return Value{kind: KindList, l: l}
}

// Strings returns a list Value of string Values.
func Strings(ss ...string) Value {
	l := make([]Value, 0, len(ss))
	for _, s := range ss {
		l = append(l, String(s))
	}
	return Value{kind: KindList, l: l}
}

func (v Value) AsBool() (bool, bool)         { return v.b, v.kind == KindBool }
func (v Value) AsNumber() (float64, bool)    { return v.n, v.kind == KindNumber }
func (v Value) AsString() (string, bool)     { return v.s, v.kind == KindString }
func (v Value) AsList() ([]Value, bool)      { return v.l, v.kind == KindList }
func (v Value) AsDocument() (Document, bool) { return v.d, v.kind == KindDocument }

// Equal reports deep equality. Numbers compare by value.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return v.n == o.n
	case KindString:
		return v.s == o.s
	case KindList:
		if len(v.l) != len(o.l) {
			return false
		}
		for i := range v.l {
			if !v.l[i].Equal(o.l[i]) {
				return false
			}
		}
		return true
	case KindDocument:
		return v.d.Equal(o.d)
	}
	return false
}

// Compare returns -1, 0 or +1. Values of different kinds order by Kind,
// so every pair of Values is comparable.
func (v Value) Compare(o Value) int {
	if v.kind != o.kind {
		if v.kind < o.kind {
			return -1
		}
		return 1
	}
	switch v.kind {
	case KindBool:
		switch {
		case v.b == o.b:
			return 0
		case !v.b:
			return -1
		}
		return 1
	case KindNumber:
		switch {
		case v.n < o.n:
			return -1
		case v.n > o.n:
			return 1
		}
		return 0
	case KindString:
		return strings.Compare(v.s, o.s)
	case KindList:
		for i := 0; i < len(v.l) && i < len(o.l); i++ {
			if c := v.l[i].Compare(o.l[i]); c != 0 {
				return c
			}
		}
		return compareInts(len(v.l), len(o.l))
	case KindDocument:
		vk, ok := v.d.keys(), o.d.keys()
		for i := 0; i < len(vk) && i < len(ok); i++ {
			if c := strings.Compare(vk[i], ok[i]); c != 0 {
				return c
			}
			if c := v.d[vk[i]].Compare(o.d[ok[i]]); c != 0 {
				return c
			}
		}
		return compareInts(len(vk), len(ok))
	}
	return 0
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch v.kind {
	case KindList:
		l := make([]Value, len(v.l))
		for i, item := range v.l {
			l[i] = item.Clone()
		}
		return Value{kind: KindList, l: l}
	case KindDocument:
		return Value{kind: KindDocument, d: v.d.Clone()}
	}
	return v
}

// Interface converts v back to plain Go values (nil, bool, float64, string, []interface{}, map[string]interface{}).
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindList:
		l := make([]interface{}, len(v.l))
		for i, item := range v.l {
			l[i] = item.Interface()
		}
		return l
	case KindDocument:
		return v.d.Map()
	}
	return nil
}

// String renders v as JSON.
func (v Value) String() string {
	b, err := json.Marshal(v)
	if err != nil {
		return "<" + v.kind.String() + ">"
	}
	return string(b)
}

// key is a canonical representation used to bucket equal values.
func (v Value) key() string {
	return v.kind.String() + ":" + v.String()
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		if math.IsNaN(v.n) || math.IsInf(v.n, 0) {
			return nil, errors.Errorf("cannot encode number %v", v.n)
		}
		return json.Marshal(v.n)
	case KindString:
		return json.Marshal(v.s)
	case KindList:
		if v.l == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.l)
	case KindDocument:
		if v.d == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.d)
	}
	return []byte("null"), nil
}

func (v *Value) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	val, err := ValueOf(raw)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

// ValueOf converts decoded JSON / YAML data into a Value.
func ValueOf(x interface{}) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case Document:
		return Doc(t), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return Value{}, errors.Wrapf(err, "parsing number %q", t.String())
		}
		return Number(n), nil
	case int:
		return Int(t), nil
	case int32:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case uint:
		return Number(float64(t)), nil
	case uint32:
		return Number(float64(t)), nil
	case uint64:
		return Number(float64(t)), nil
	case float32:
		return Number(float64(t)), nil
	case float64:
		return Number(t), nil
	case []string:
		return Strings(t...), nil
	case []interface{}:
		l := make([]Value, 0, len(t))
		for i, item := range t {
			val, err := ValueOf(item)
			if err != nil {
				return Value{}, errors.Wrapf(err, "[%d]", i)
			}
			l = append(l, val)
		}
		return Value{kind: KindList, l: l}, nil
	case map[string]interface{}:
		d, err := DocumentOf(t)
		if err != nil {
			return Value{}, err
		}
		return Doc(d), nil
	case map[interface{}]interface{}: // yaml.v2
		d := make(Document, len(t))
		for k, item := range t {
			ks, ok := k.(string)
			if !ok {
				return Value{}, errors.Wrapf(ErrUnsupportedType, "non-string key %v", k)
			}
			val, err := ValueOf(item)
			if err != nil {
				return Value{}, errors.Wrapf(err, "%s", ks)
			}
			d[ks] = val
		}
		return Doc(d), nil
	}
	return Value{}, errors.Wrapf(ErrUnsupportedType, "%T", x)
}
