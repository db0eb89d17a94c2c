package clientrpc

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Method describes a single remote method extracted from a contract struct.
type Method struct {
	// Name identifies the method within its contract and is used verbatim
	// as the final segment of the call url.
	Name string

	// Arg is the type of the method's single argument, or nil when the
	// method takes only a context.
	Arg reflect.Type

	// Ret is the type of the value the method resolves to, or nil when it
	// returns only an error.
	Ret reflect.Type

	field int          // index of the originating struct field
	fn    reflect.Type // exact func type of the field
}

// ContractError is returned when a type does not describe a remote service
// contract. Validation never stops at the first bad field: Faults holds one
// message per offending field, in field declaration order.
type ContractError struct {
	Contract string
	Faults   []string
}

func (e *ContractError) Error() string {
	return "rpc: invalid contract " + e.Contract + ": " + strings.Join(e.Faults, "; ")
}

var (
	typeOfError = reflect.TypeOf((*error)(nil)).Elem()
	typeOfCtx   = reflect.TypeOf((*context.Context)(nil)).Elem()
)

// contracts caches validated method tables per contract type. Extraction is
// deterministic, so caching only skips the repeated reflection pass when
// many proxies share a contract.
var contracts, _ = lru.New[reflect.Type, []Method](128)

// Extract validates contract's type and returns its method table, one entry
// per struct field in declaration order. contract may be a contract struct
// value or a (possibly nil) pointer to one.
//
// Extraction never stops at the first violation. If any field is unsuitable
// the returned error is a *ContractError naming every one of them, and no
// method table is returned.
func Extract(contract interface{}) ([]Method, error) {
	t := reflect.TypeOf(contract)
	if t == nil {
		return nil, fmt.Errorf("rpc: contract must not be nil")
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return extractType(t)
}

// extractCached returns the validated method table for t, consulting the
// package cache first. Only successful extractions are cached.
func extractCached(t reflect.Type) ([]Method, error) {
	if ms, ok := contracts.Get(t); ok {
		return ms, nil
	}
	ms, err := extractType(t)
	if err != nil {
		return nil, err
	}
	contracts.Add(t, ms)
	return ms, nil
}

func extractType(t reflect.Type) ([]Method, error) {
	name := typeName(t)
	if t.Kind() != reflect.Struct {
		return nil, &ContractError{Contract: name, Faults: []string{"not a struct type"}}
	}

	var methods []Method
	var faults []string
	seen := map[string]bool{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		m, fault := checkField(name, f)
		if fault != "" {
			faults = append(faults, fault)
			continue
		}
		if seen[m.Name] {
			faults = append(faults, fmt.Sprintf("%s.%s: duplicate method name %q", name, f.Name, m.Name))
			continue
		}
		seen[m.Name] = true
		m.field = i
		methods = append(methods, m)
	}
	if len(faults) > 0 {
		return nil, &ContractError{Contract: name, Faults: faults}
	}
	if len(methods) == 0 {
		return nil, fmt.Errorf("rpc: contract %s has no methods", name)
	}
	return methods, nil
}

// checkField classifies one contract field, returning its descriptor or a
// message naming the first rule it breaks. Each field contributes at most
// one fault.
func checkField(contract string, f reflect.StructField) (Method, string) {
	bad := func(msg string) (Method, string) {
		return Method{}, contract + "." + f.Name + ": " + msg
	}
	if !isExported(f.Name) {
		return bad("field must be exported")
	}
	name := f.Name
	if tag := f.Tag.Get("rpc"); tag != "" {
		if tag == "-" {
			return bad("cannot be excluded from the contract")
		}
		name = tag
	}
	if name == basePathMethod {
		return bad("name is reserved; declare the base path as a BasePath method instead")
	}
	ft := f.Type
	if ft.Kind() != reflect.Func {
		return bad("not a function")
	}
	if ft.IsVariadic() {
		return bad("variadic arguments are not supported")
	}
	if ft.NumIn() == 0 || ft.In(0) != typeOfCtx {
		return bad("first argument must be a context.Context")
	}
	if ft.NumIn() > 2 {
		return bad("takes more than one argument; combine them into a single request struct")
	}
	switch ft.NumOut() {
	case 1:
		if ft.Out(0).Kind() == reflect.Func {
			return bad("returns a function; combine the arguments into a single request struct")
		}
		if ft.Out(0) != typeOfError {
			return bad("single return value must be error")
		}
	case 2:
		if ft.Out(1) != typeOfError {
			return bad("second return value must be error")
		}
		if ft.Out(0) == typeOfError {
			return bad("first return value must not be error")
		}
		if ft.Out(0).Kind() == reflect.Func {
			return bad("returns a function; combine the arguments into a single request struct")
		}
	default:
		return bad("must return (T, error) or error")
	}

	m := Method{Name: name, fn: ft}
	if ft.NumIn() == 2 {
		m.Arg = ft.In(1)
	}
	if ft.NumOut() == 2 {
		m.Ret = ft.Out(0)
	}
	return m, ""
}

// typeName returns t's name, falling back to its full string form for
// unnamed types.
func typeName(t reflect.Type) string {
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

// isExported returns true if a string is an exported (upper case) name.
func isExported(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}
