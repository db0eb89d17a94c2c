package clientrpc

import (
	"context"
	. "testing"

	"github.com/levenlabs/clientrpc/clienttypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userDTOType = &clienttypes.Type{ObjectOf: map[string]*clienttypes.Type{
	"id":   &clienttypes.Type{TypeOf: "int64"},
	"name": &clienttypes.Type{TypeOf: "string"},
}}

func TestDescribe(t *T) {
	svc, err := Describe(UserService{})
	require.Nil(t, err)

	expected := clienttypes.Service{
		Name: "UserService",
		Methods: map[string]clienttypes.Method{
			"GetUser": {
				Name:    "GetUser",
				Args:    &clienttypes.Type{TypeOf: "int64"},
				Returns: userDTOType,
			},
			"ListUsers": {
				Name:    "ListUsers",
				Returns: &clienttypes.Type{ArrayOf: userDTOType},
			},
			"SaveUser": {
				Name: "SaveUser",
				Args: userDTOType,
			},
			"DeleteUser": {
				Name: "DeleteUser",
				Args: &clienttypes.Type{TypeOf: "int64"},
			},
		},
	}
	assert.Equal(t, expected, svc)
}

func TestDescribeSelfDeclared(t *T) {
	svc, err := Describe(SelfService{})
	require.Nil(t, err)
	assert.Equal(t, NormalizeBasePath(testURL+"/api/self"), svc.BasePath)
	assert.Equal(t, "SelfService", svc.Name)
}

func TestDescribeSelfDeclaredNil(t *T) {
	// a typed nil pointer carries no instance, so no base path is read
	svc, err := Describe((*SelfService)(nil))
	require.Nil(t, err)
	assert.Equal(t, "SelfService", svc.Name)
	assert.Equal(t, "", svc.BasePath)
	assert.Contains(t, svc.Methods, "Whoami")
}

func TestDescribeInvalid(t *T) {
	type Bad struct {
		Nope int
	}
	_, err := Describe(Bad{})
	require.NotNil(t, err)
	_, ok := err.(*ContractError)
	assert.True(t, ok)

	// an argument with no wire rendering also fails
	type BadArg struct {
		Send func(ctx context.Context, ch chan int) error
	}
	_, err = Describe(BadArg{})
	assert.NotNil(t, err)
}
