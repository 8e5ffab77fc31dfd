// pdp/model/attribute.go
package model

import (
	"fmt"
	"strings"

	verdict_errors "github.com/verdictsec/verdict/errors"
)

// Category identifies which part of an access request an attribute describes.
type Category string

const (
	CategorySubject     Category = "subject"
	CategoryResource    Category = "resource"
	CategoryAction      Category = "action"
	CategoryEnvironment Category = "environment"
)

// ParseCategory validates a category string from an external definition.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategorySubject, CategoryResource, CategoryAction, CategoryEnvironment:
		return Category(s), nil
	default:
		return "", fmt.Errorf("%w: %q", verdict_errors.ErrUnknownCategory, s)
	}
}

// Kind discriminates the typed variants of an AttributeValue.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindStringSet
)

var kindStrings = [...]string{"string", "bool", "int", "string-set"}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindStrings) {
		return kindStrings[k]
	}
	return fmt.Sprintf("unknown(%d)", int(k))
}

// AttributeValue is a typed scalar or string set. The zero value is the empty
// string. Values are immutable after construction.
type AttributeValue struct {
	kind Kind
	str  string
	b    bool
	i    int64
	set  []string
}

func StringValue(s string) AttributeValue {
	return AttributeValue{kind: KindString, str: s}
}

func BoolValue(b bool) AttributeValue {
	return AttributeValue{kind: KindBool, b: b}
}

func IntValue(i int64) AttributeValue {
	return AttributeValue{kind: KindInt, i: i}
}

func SetValue(members ...string) AttributeValue {
	set := make([]string, len(members))
	copy(set, members)
	return AttributeValue{kind: KindStringSet, set: set}
}

func (v AttributeValue) Kind() Kind { return v.kind }

// Equal reports exact equality: same kind, same value. Sets compare as
// unordered collections.
func (v AttributeValue) Equal(o AttributeValue) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindStringSet:
		if len(v.set) != len(o.set) {
			return false
		}
		for _, m := range v.set {
			if !o.Contains(m) {
				return false
			}
		}
		return true
	}
	return false
}

// Matches implements the match semantics of target predicates: exact equality
// for scalars, membership when the designated value is a set and the literal
// is a string.
func (v AttributeValue) Matches(literal AttributeValue) bool {
	if v.kind == KindStringSet && literal.kind == KindString {
		return v.Contains(literal.str)
	}
	return v.Equal(literal)
}

// Contains reports set membership. False for non-set values.
func (v AttributeValue) Contains(member string) bool {
	for _, m := range v.set {
		if m == member {
			return true
		}
	}
	return false
}

func (v AttributeValue) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindStringSet:
		return "{" + strings.Join(v.set, ",") + "}"
	}
	return ""
}

// Attribute pairs a (category, id) designator with its value.
type Attribute struct {
	Category Category
	ID       string
	Value    AttributeValue
}

type attrKey struct {
	category Category
	id       string
}

// AttributeContext is a read-only snapshot of the attributes of one access
// request. It is built once per request and never mutated, so concurrent
// lookups need no synchronization.
type AttributeContext struct {
	attrs map[attrKey]AttributeValue
}

// NewAttributeContext builds a context from the given attributes. Supplying
// the same (category, id) twice is a caller-contract violation and fails with
// ErrDuplicateAttribute; the engine never evaluates a malformed context.
func NewAttributeContext(attrs ...Attribute) (*AttributeContext, error) {
	m := make(map[attrKey]AttributeValue, len(attrs))
	for _, a := range attrs {
		if _, err := ParseCategory(string(a.Category)); err != nil {
			return nil, err
		}
		key := attrKey{category: a.Category, id: a.ID}
		if _, exists := m[key]; exists {
			return nil, fmt.Errorf("%w: %s.%s", verdict_errors.ErrDuplicateAttribute, a.Category, a.ID)
		}
		m[key] = a.Value
	}
	return &AttributeContext{attrs: m}, nil
}

// Get looks up an attribute. The second return value is false when the
// attribute is absent; callers decide whether that means "no match" (targets)
// or Indeterminate (conditions).
func (c *AttributeContext) Get(category Category, id string) (AttributeValue, bool) {
	v, ok := c.attrs[attrKey{category: category, id: id}]
	return v, ok
}

// Len returns the number of attributes in the context.
func (c *AttributeContext) Len() int {
	return len(c.attrs)
}
