package clientrpc

import (
	"context"
	"reflect"
	. "testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type UserDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type UserService struct {
	GetUser    func(ctx context.Context, id int64) (UserDTO, error)
	ListUsers  func(ctx context.Context) ([]UserDTO, error)
	SaveUser   func(ctx context.Context, u UserDTO) error
	RemoveUser func(ctx context.Context, id int64) error `rpc:"DeleteUser"`
}

func TestExtract(t *T) {
	ms, err := Extract(UserService{})
	require.Nil(t, err)
	require.Equal(t, 4, len(ms))

	assert.Equal(t, "GetUser", ms[0].Name)
	assert.Equal(t, reflect.TypeOf(int64(0)), ms[0].Arg)
	assert.Equal(t, reflect.TypeOf(UserDTO{}), ms[0].Ret)

	assert.Equal(t, "ListUsers", ms[1].Name)
	assert.Nil(t, ms[1].Arg)
	assert.Equal(t, reflect.TypeOf([]UserDTO{}), ms[1].Ret)

	assert.Equal(t, "SaveUser", ms[2].Name)
	assert.Equal(t, reflect.TypeOf(UserDTO{}), ms[2].Arg)
	assert.Nil(t, ms[2].Ret)

	// renamed by its rpc tag
	assert.Equal(t, "DeleteUser", ms[3].Name)

	// a pointer to the contract describes the same table
	ms2, err := Extract(&UserService{})
	require.Nil(t, err)
	assert.Equal(t, ms, ms2)
}

func TestExtractInvalid(t *T) {
	type BadService struct {
		Fine    func(ctx context.Context, n int) (int, error)
		Count   int
		TwoArgs func(ctx context.Context, a, b int) (int, error)
		NoCtx   func(n int) (int, error)
		Bare    func(ctx context.Context, n int) int
		Spread  func(ctx context.Context, ns ...int) (int, error)
	}
	_, err := Extract(BadService{})
	require.NotNil(t, err)
	cerr, ok := err.(*ContractError)
	require.True(t, ok)
	assert.Equal(t, "BadService", cerr.Contract)

	// one fault per offending field, in declaration order; compliant fields
	// contribute nothing
	require.Equal(t, 5, len(cerr.Faults))
	assert.Equal(t, "BadService.Count: not a function", cerr.Faults[0])
	assert.Equal(t, "BadService.TwoArgs: takes more than one argument; combine them into a single request struct", cerr.Faults[1])
	assert.Equal(t, "BadService.NoCtx: first argument must be a context.Context", cerr.Faults[2])
	assert.Equal(t, "BadService.Bare: single return value must be error", cerr.Faults[3])
	assert.Equal(t, "BadService.Spread: variadic arguments are not supported", cerr.Faults[4])
}

func TestExtractCurried(t *T) {
	// a nested function signature means the author meant two arguments
	type Adder struct {
		Add func(ctx context.Context, a int) func(b int) (int, error)
	}
	_, err := Extract(Adder{})
	require.NotNil(t, err)
	cerr, ok := err.(*ContractError)
	require.True(t, ok)
	require.Equal(t, 1, len(cerr.Faults))
	assert.Contains(t, cerr.Faults[0], "Adder.Add")
	assert.Contains(t, cerr.Faults[0], "single request struct")
}

func TestExtractReservedName(t *T) {
	type Svc struct {
		BasePath func(ctx context.Context) (string, error)
	}
	_, err := Extract(Svc{})
	require.NotNil(t, err)
	cerr, ok := err.(*ContractError)
	require.True(t, ok)
	require.Equal(t, 1, len(cerr.Faults))
	assert.Contains(t, cerr.Faults[0], "Svc.BasePath")
	assert.Contains(t, cerr.Faults[0], "reserved")

	// the tag rename hits the same reservation
	type Svc2 struct {
		Path func(ctx context.Context) (string, error) `rpc:"BasePath"`
	}
	_, err = Extract(Svc2{})
	require.NotNil(t, err)
}

func TestExtractUnexported(t *T) {
	type Svc struct {
		get func(ctx context.Context) (int, error)
	}
	_, err := Extract(Svc{})
	require.NotNil(t, err)
	cerr, ok := err.(*ContractError)
	require.True(t, ok)
	require.Equal(t, 1, len(cerr.Faults))
	assert.Equal(t, "Svc.get: field must be exported", cerr.Faults[0])
}

func TestExtractDuplicate(t *T) {
	type Svc struct {
		A func(ctx context.Context) (int, error) `rpc:"Get"`
		B func(ctx context.Context) (int, error) `rpc:"Get"`
	}
	_, err := Extract(Svc{})
	require.NotNil(t, err)
	cerr, ok := err.(*ContractError)
	require.True(t, ok)
	require.Equal(t, 1, len(cerr.Faults))
	assert.Contains(t, cerr.Faults[0], "Svc.B")
	assert.Contains(t, cerr.Faults[0], `duplicate method name "Get"`)
}

func TestExtractNotStruct(t *T) {
	_, err := Extract(42)
	require.NotNil(t, err)
	assert.Equal(t, "rpc: invalid contract int: not a struct type", err.Error())

	_, err = Extract(nil)
	require.NotNil(t, err)
}

func TestExtractEmpty(t *T) {
	type Empty struct{}
	_, err := Extract(Empty{})
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "no methods")
}
