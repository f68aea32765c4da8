package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_TypedAccess(t *testing.T) {
	s := NewStorage()
	key := NewStorageKey[int]("counter")

	_, ok := GetValue(s, key)
	assert.False(t, ok)

	StoreValue(s, key, 42)
	v, ok := GetValue(s, key)
	require.True(t, ok)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, s.Len())

	RemoveValue(s, key)
	_, ok = GetValue(s, key)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestStorage_TypeMismatchIsAMiss(t *testing.T) {
	s := NewStorage()
	intKey := NewStorageKey[int]("shared")
	strKey := NewStorageKey[string]("shared")

	StoreValue(s, intKey, 7)

	// Same name, different type parameter: the read must not panic and must
	// report a miss instead of a mistyped hit.
	_, ok := GetValue(s, strKey)
	assert.False(t, ok)

	v, ok := GetValue(s, intKey)
	require.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestStorage_CloneIsIndependent(t *testing.T) {
	s := NewStorage()
	key := NewStorageKey[string]("greeting")
	StoreValue(s, key, "hello")

	clone := s.Clone()
	StoreValue(clone, key, "changed")

	v, ok := GetValue(s, key)
	require.True(t, ok)
	assert.Equal(t, "hello", v)

	v, ok = GetValue(clone, key)
	require.True(t, ok)
	assert.Equal(t, "changed", v)
}
