package value

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

type Kind int

const (
	Invalid Kind = iota
	Int
	Bytes
	List
	Dict
)

func (kind Kind) String() string {
	switch kind {
	case Int:
		return "int"
	case Bytes:
		return "bytes"
	case List:
		return "list"
	case Dict:
		return "dict"
	default:
		return "invalid"
	}
}

// Value is a decoded bencode value. The zero Value has kind Invalid and
// stands for an absent value.
//
// Slices and maps returned by the accessors are shared with the Value and
// must not be modified.
type Value struct {
	kind    Kind
	integer int64
	bytes   []byte
	list    []Value
	dict    map[string]Value
}

func NewInt(integer int64) Value {
	return Value{kind: Int, integer: integer}
}

// NewBytes copies data, so the caller may reuse it afterwards.
func NewBytes(data []byte) Value {
	return Value{kind: Bytes, bytes: bytes.Clone(data)}
}

func NewString(str string) Value {
	return Value{kind: Bytes, bytes: []byte(str)}
}

func NewList(elements ...Value) Value {
	if elements == nil {
		elements = make([]Value, 0)
	}

	return Value{kind: List, list: elements}
}

func NewDict(entries map[string]Value) Value {
	if entries == nil {
		entries = make(map[string]Value)
	}

	return Value{kind: Dict, dict: entries}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsValid() bool {
	return v.kind != Invalid
}

func (v Value) AsInt() (int64, bool) {
	if v.kind != Int {
		return 0, false
	}

	return v.integer, true
}

func (v Value) AsBytes() ([]byte, bool) {
	if v.kind != Bytes {
		return nil, false
	}

	return v.bytes, true
}

// AsString returns byte string contents converted to a Go string. The
// contents are not checked to be valid UTF-8.
func (v Value) AsString() (string, bool) {
	if v.kind != Bytes {
		return "", false
	}

	return string(v.bytes), true
}

func (v Value) AsList() ([]Value, bool) {
	if v.kind != List {
		return nil, false
	}

	return v.list, true
}

func (v Value) AsDict() (map[string]Value, bool) {
	if v.kind != Dict {
		return nil, false
	}

	return v.dict, true
}

func (v Value) Get(key string) (Value, bool) {
	if v.kind != Dict {
		return Value{}, false
	}

	entry, ok := v.dict[key]
	return entry, ok
}

func (v Value) Index(index int) (Value, bool) {
	if v.kind != List || index < 0 || index >= len(v.list) {
		return Value{}, false
	}

	return v.list[index], true
}

// Len returns the number of bytes, list elements or dictionary entries.
// It is zero for integers and invalid values.
func (v Value) Len() int {
	switch v.kind {
	case Bytes:
		return len(v.bytes)
	case List:
		return len(v.list)
	case Dict:
		return len(v.dict)
	default:
		return 0
	}
}

// Keys returns dictionary keys in sorted order.
func (v Value) Keys() []string {
	if v.kind != Dict {
		return nil
	}

	keys := make([]string, 0, len(v.dict))
	for key := range v.dict {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	return keys
}

func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case Int:
		return v.integer == other.integer
	case Bytes:
		return bytes.Equal(v.bytes, other.bytes)
	case List:
		return slices.EqualFunc(v.list, other.list, Value.Equal)
	case Dict:
		if len(v.dict) != len(other.dict) {
			return false
		}

		for key, entry := range v.dict {
			otherEntry, ok := other.dict[key]
			if !ok || !entry.Equal(otherEntry) {
				return false
			}
		}

		return true
	default:
		return true
	}
}

func (v Value) String() string {
	var builder strings.Builder
	v.format(&builder)

	return builder.String()
}

func (v Value) format(builder *strings.Builder) {
	switch v.kind {
	case Int:
		fmt.Fprintf(builder, "Int(%d)", v.integer)
	case Bytes:
		builder.WriteString("Bytes(")
		builder.WriteString(strconv.Quote(string(v.bytes)))
		builder.WriteString(")")
	case List:
		builder.WriteString("List[")
		for i, element := range v.list {
			if i > 0 {
				builder.WriteString(", ")
			}
			element.format(builder)
		}
		builder.WriteString("]")
	case Dict:
		builder.WriteString("Dict{")
		for i, key := range v.Keys() {
			if i > 0 {
				builder.WriteString(", ")
			}
			builder.WriteString(strconv.Quote(key))
			builder.WriteString(": ")
			v.dict[key].format(builder)
		}
		builder.WriteString("}")
	default:
		builder.WriteString("Invalid")
	}
}
