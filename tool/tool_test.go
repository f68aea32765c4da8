package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoArgs struct {
	Text string `json:"text" jsonschema_description:"Text to echo"`
}

func newEchoTool() Tool {
	return NewFunctionTool("echo", "Echoes its input.", func(_ context.Context, args echoArgs) (any, error) {
		return args.Text, nil
	})
}

func TestFunctionTool_Execute(t *testing.T) {
	echo := newEchoTool()

	out, err := echo.Execute(context.Background(), []byte(`{"text":"hello"}`))
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestFunctionTool_SchemaDerivation(t *testing.T) {
	echo := newEchoTool()

	schema := echo.Schema()
	assert.Equal(t, "object", schema["type"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "text")
}

func TestFunctionTool_MissingRequiredArgIsValidationError(t *testing.T) {
	echo := newEchoTool()

	_, err := echo.Execute(context.Background(), []byte(`{}`))
	require.Error(t, err)

	var validationErr *ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestFunctionTool_MalformedJSONIsDecodeError(t *testing.T) {
	echo := newEchoTool()

	_, err := echo.Execute(context.Background(), []byte(`{not json`))
	require.Error(t, err)

	var decodeErr *DecodeError
	assert.True(t, errors.As(err, &decodeErr))
}

func TestFunctionTool_BodyErrorPassesThrough(t *testing.T) {
	boom := NewFunctionTool("boom", "Always fails.", func(_ context.Context, _ echoArgs) (any, error) {
		return nil, errors.New("kaboom")
	})

	_, err := boom.Execute(context.Background(), []byte(`{"text":"x"}`))
	require.Error(t, err)

	var validationErr *ValidationError
	assert.False(t, errors.As(err, &validationErr))
	assert.Contains(t, err.Error(), "kaboom")
}

func TestRegistry_RegisterAndResolve(t *testing.T) {
	r, err := NewRegistry(newEchoTool())
	require.NoError(t, err)

	resolved, err := r.Resolve("echo")
	require.NoError(t, err)
	assert.Equal(t, "echo", resolved.Name())

	_, err = r.Resolve("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrToolNotFound))
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	r, err := NewRegistry(newEchoTool())
	require.NoError(t, err)

	err = r.Register(newEchoTool())
	assert.Error(t, err)
}

func TestRegistry_DescriptorsPreserveRegistrationOrder(t *testing.T) {
	first := NewFunctionTool("first", "First.", func(_ context.Context, _ echoArgs) (any, error) { return nil, nil })
	second := NewFunctionTool("second", "Second.", func(_ context.Context, _ echoArgs) (any, error) { return nil, nil })

	r, err := NewRegistry(first, second)
	require.NoError(t, err)

	descriptors := r.Descriptors()
	require.Len(t, descriptors, 2)
	assert.Equal(t, "first", descriptors[0].Name)
	assert.Equal(t, "second", descriptors[1].Name)
}

func TestRegistry_Subset(t *testing.T) {
	first := NewFunctionTool("first", "First.", func(_ context.Context, _ echoArgs) (any, error) { return nil, nil })
	second := NewFunctionTool("second", "Second.", func(_ context.Context, _ echoArgs) (any, error) { return nil, nil })

	r, err := NewRegistry(first, second)
	require.NoError(t, err)

	sub, err := r.Subset("second")
	require.NoError(t, err)
	assert.Equal(t, []string{"second"}, sub.Names())

	_, err = r.Subset("unknown")
	assert.Error(t, err)
}
