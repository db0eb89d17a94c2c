package clientrpc

import (
	"fmt"
	"reflect"

	"github.com/levenlabs/clientrpc/clienttypes"
)

// Describe returns a wire-encodable description of contract's method table,
// suitable for sharing with other processes or generating documentation.
// When contract implements RemoteService its normalized base path is
// included. Describing a contract does not build a proxy for it.
func Describe(contract interface{}) (clienttypes.Service, error) {
	t := reflect.TypeOf(contract)
	if t == nil {
		return clienttypes.Service{}, fmt.Errorf("rpc: contract must not be nil")
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	methods, err := extractCached(t)
	if err != nil {
		return clienttypes.Service{}, err
	}
	svc := clienttypes.Service{
		Name:    typeName(t),
		Methods: make(map[string]clienttypes.Method, len(methods)),
	}
	// a typed nil pointer describes the contract type alone; there is no
	// instance to read a declared base path from
	if rs, ok := contract.(RemoteService); ok {
		if v := reflect.ValueOf(contract); v.Kind() != reflect.Ptr || !v.IsNil() {
			svc.BasePath = NormalizeBasePath(rs.BasePath())
		}
	}
	for _, m := range methods {
		dm := clienttypes.Method{Name: m.Name}
		if m.Arg != nil {
			if dm.Args, err = clienttypes.FromType(m.Arg); err != nil {
				return clienttypes.Service{}, err
			}
		}
		if m.Ret != nil {
			if dm.Returns, err = clienttypes.FromType(m.Ret); err != nil {
				return clienttypes.Service{}, err
			}
		}
		svc.Methods[m.Name] = dm
	}
	return svc, nil
}
