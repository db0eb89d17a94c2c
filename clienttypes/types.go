// Package clienttypes holds the wire-encodable description of a remote
// service contract: the service, its methods, and a JSON-oriented rendering
// of their argument and return types. Descriptions are produced by
// clientrpc.Describe and are safe to marshal and share across processes.
package clienttypes

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Service describes one remote service contract.
type Service struct {
	Name     string            `json:"name"`
	BasePath string            `json:"basePath,omitempty"`
	Methods  map[string]Method `json:"methods"`
}

// Method describes a single method of a Service: the name it is dispatched
// by, the shape of its single argument, and the shape of its return value.
// Args is nil for methods taking only a context, Returns is nil for methods
// returning only an error.
type Method struct {
	Name    string `json:"name"`
	Args    *Type  `json:"args,omitempty"`
	Returns *Type  `json:"returns,omitempty"`
}

// Type describes a JSON-encodable type as a tree. Exactly one of the type
// fields is set, and the leaves are all TypeOf nodes. Kind names are plain
// strings ("int64", "string", ...) so descriptions stay readable to non-Go
// consumers.
//
// We use the pointer form throughout so that one Type can optionally embed
// another.
type Type struct {
	TypeOf   string           `json:"typeOf,omitempty"`
	ArrayOf  *Type            `json:"arrayOf,omitempty"`
	ObjectOf map[string]*Type `json:"objectOf,omitempty"`

	// MapOf is different from ObjectOf in that ObjectOf has specific keys,
	// each with its own type, while MapOf admits any string key with all
	// values of the one given type.
	MapOf *Type `json:"mapOf,omitempty"`

	// Nullable marks values reached through a pointer, which may be encoded
	// as a JSON null.
	Nullable bool `json:"nullable,omitempty"`
}

var typeOfTime = reflect.TypeOf(time.Time{})

// FromType renders t as a Type tree. Shapes with no JSON rendering, such as
// functions, channels, and maps with non-string keys, produce an error.
func FromType(t reflect.Type) (*Type, error) {
	nullable := false
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
		nullable = true
	}

	if t == typeOfTime {
		// encoded by encoding/json as an RFC 3339 string
		return &Type{TypeOf: "string", Nullable: nullable}, nil
	}

	kind := t.Kind()

	// Bool through Float64 covers every boolean, integer, and float kind
	if (kind >= reflect.Bool && kind <= reflect.Float64) || kind == reflect.String {
		return &Type{TypeOf: kind.String(), Nullable: nullable}, nil
	}

	switch kind {
	case reflect.Array, reflect.Slice:
		inner, err := FromType(t.Elem())
		if err != nil {
			return nil, err
		}
		return &Type{ArrayOf: inner, Nullable: nullable}, nil

	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("unsupported map key type: %v", t)
		}
		inner, err := FromType(t.Elem())
		if err != nil {
			return nil, err
		}
		return &Type{MapOf: inner, Nullable: nullable}, nil

	case reflect.Interface:
		if t.NumMethod() != 0 {
			return nil, fmt.Errorf("unsupported interface type: %v", t)
		}
		return &Type{TypeOf: "interface", Nullable: nullable}, nil

	case reflect.Struct:
		m := map[string]*Type{}
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.PkgPath != "" {
				continue
			}
			key, ok := fieldKey(f)
			if !ok {
				continue
			}
			inner, err := FromType(f.Type)
			if err != nil {
				return nil, err
			}
			// untagged embedded structs are flattened into their parent,
			// matching how encoding/json renders them
			if f.Anonymous && f.Tag.Get("json") == "" && len(inner.ObjectOf) > 0 {
				for k, v := range inner.ObjectOf {
					m[k] = v
				}
				continue
			}
			m[key] = inner
		}
		return &Type{ObjectOf: m, Nullable: nullable}, nil
	}

	return nil, fmt.Errorf("unsupported type: %v", t)
}

// fieldKey returns the JSON key for a struct field, honoring its json tag.
// The second return is false for fields excluded with json:"-".
func fieldKey(f reflect.StructField) (string, bool) {
	tag := f.Tag.Get("json")
	if tag == "" {
		return f.Name, true
	}
	name := strings.SplitN(tag, ",", 2)[0]
	switch name {
	case "":
		return f.Name, true
	case "-":
		return "", false
	}
	return name, true
}
