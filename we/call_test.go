package we

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type testIncrement struct{}

type testNamed struct{}

func (testNamed) TypeName() string {
	return "named_call"
}

func TestMethodNameOf(t *testing.T) {
	assert.Equal(t, MethodName("test_increment"), MethodNameOf(testIncrement{}))
	assert.Equal(t, MethodName("test_increment"), MethodNameOf(&testIncrement{}))
	assert.Equal(t, MethodName("named_call"), MethodNameOf(testNamed{}))
	assert.Equal(t, MethodName("update_top_threshold"), MethodNameOf(RemoteCall{Method: "updateTopThreshold"}))
	assert.Equal(t, MethodName("update_top_threshold"), MethodNameOf(&RemoteCall{Method: "update-top-threshold"}))
	assert.Equal(t, MethodName("get_num"), MethodNameOf(RemoteCall{Method: "get_num"}))
}

func TestNameOf(t *testing.T) {
	assert.Equal(t, "we:test-increment", NameOf(testIncrement{}))
	assert.Equal(t, "we:test-increment", NameOf(&testIncrement{}))
	assert.Equal(t, "named_call", NameOf(testNamed{}))
}

func TestArgsOf(t *testing.T) {
	assert.Equal(t, []byte("{}"), ArgsOf(RemoteCall{Method: "reset"}))
	assert.Equal(t, []byte("{}"), ArgsOf(RemoteCall{Method: "reset", Args: []byte("null")}))
	assert.Equal(t, []byte("{}"), ArgsOf(RemoteCall{Method: "reset", Args: []byte("  ")}))
	assert.Equal(t, []byte(`{"value": -128}`), ArgsOf(RemoteCall{Method: "set", Args: []byte(` {"value": -128} `)}))
}

type typedState struct{}

func (typedState) EntityType() EntityType {
	return "typed"
}

func TestEntityTypeFor(t *testing.T) {
	assert.Equal(t, EntityType("typed"), EntityTypeFor[typedState]())
	assert.Equal(t, EntityType("we:test-increment"), EntityTypeFor[testIncrement]())
}
