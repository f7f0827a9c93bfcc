package binding

import (
	"errors"
	"fmt"
	"reflect"
)

var ErrTypeNotBound = errors.New("binding: type is not bound to this context")

// TypeSet is the set of value types a context was built for. An empty set
// accepts every type.
type TypeSet struct {
	types []reflect.Type
	index map[reflect.Type]struct{}
}

func NewTypeSet(types []reflect.Type) TypeSet {
	set := TypeSet{index: map[reflect.Type]struct{}{}}
	for _, typ := range types {
		typ = baseType(typ)
		if typ == nil {
			continue
		}
		if _, exists := set.index[typ]; exists {
			continue
		}
		set.index[typ] = struct{}{}
		set.types = append(set.types, typ)
	}
	return set
}

func (s TypeSet) Types() []reflect.Type {
	return append([]reflect.Type(nil), s.types...)
}

func (s TypeSet) Len() int {
	return len(s.types)
}

// Check returns ErrTypeNotBound when the set is non-empty and v's type is
// not a member.
func (s TypeSet) Check(v any) error {
	if len(s.types) == 0 {
		return nil
	}
	if v == nil {
		return fmt.Errorf("%w: <nil>", ErrTypeNotBound)
	}
	typ := baseType(reflect.TypeOf(v))
	if _, ok := s.index[typ]; ok {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrTypeNotBound, typ)
}

func baseType(typ reflect.Type) reflect.Type {
	if typ == nil {
		return nil
	}
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return typ
}
