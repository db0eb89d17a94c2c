package clientrpc

import (
	"context"
	"fmt"
	"reflect"
)

// Bind validates the type of contract and fills every one of its fields
// with a function routing calls through inv. contract must be a non-nil
// pointer to a contract struct. On validation failure no field is written
// and the returned error lists every violation.
//
// Most callers want Client.Proxy or NewProxy, which pair Bind with the
// plain HTTP invoker. Bind is the seam for alternative transports such as
// package rpc2.
func Bind(contract interface{}, inv Invoker) error {
	v := reflect.ValueOf(contract)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("rpc: contract must be a non-nil pointer to a struct, got %T", contract)
	}
	methods, err := extractCached(v.Type().Elem())
	if err != nil {
		return err
	}
	elem := v.Elem()
	for _, m := range methods {
		elem.Field(m.field).Set(reflect.MakeFunc(m.fn, call(m, inv)))
	}
	return nil
}

// call builds the closure backing one proxy method. It lifts the reflected
// arguments, delegates to inv, and shapes the results back to the field's
// exact signature.
func call(m Method, inv Invoker) func([]reflect.Value) []reflect.Value {
	return func(in []reflect.Value) []reflect.Value {
		ctx, _ := in[0].Interface().(context.Context)
		if ctx == nil {
			ctx = context.Background()
		}
		var arg interface{}
		if m.Arg != nil {
			arg = in[1].Interface()
		}

		var ret reflect.Value
		var out interface{}
		if m.Ret != nil {
			ret = reflect.New(m.Ret)
			out = ret.Interface()
		}

		err := inv.Invoke(ctx, m, arg, out)
		errv := reflect.Zero(typeOfError)
		if err != nil {
			errv = reflect.ValueOf(&err).Elem()
		}
		if m.Ret == nil {
			return []reflect.Value{errv}
		}
		return []reflect.Value{ret.Elem(), errv}
	}
}
