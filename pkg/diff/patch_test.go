package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatch_RoundTrip(t *testing.T) {
	oldData := map[string]interface{}{
		"title": "Hello",
		"meta": map[string]interface{}{
			"author": "alice",
			"tags":   []interface{}{"a", "b"},
		},
		"removed": "gone",
	}
	newData := map[string]interface{}{
		"title": "Hello World",
		"meta": map[string]interface{}{
			"author": "bob",
			"tags":   []interface{}{"a", "b"},
			"extra":  map[string]interface{}{"depth": float64(3)},
		},
		"added": true,
	}

	patched := ApplyPatch(oldData, CreatePatch(oldData, newData))

	assert.Equal(t, newData, patched)
}

func TestPatch_IdenticalDataIsEmpty(t *testing.T) {
	data := map[string]interface{}{"a": float64(1), "b": map[string]interface{}{"c": "d"}}

	p := CreatePatch(data, data)

	assert.Empty(t, p.Ops)
	assert.Equal(t, data, ApplyPatch(data, p))
}

func TestPatch_DoesNotMutateInput(t *testing.T) {
	oldData := map[string]interface{}{"nested": map[string]interface{}{"key": "old"}}
	newData := map[string]interface{}{"nested": map[string]interface{}{"key": "new"}}

	_ = ApplyPatch(oldData, CreatePatch(oldData, newData))

	assert.Equal(t, "old", oldData["nested"].(map[string]interface{})["key"])
}

func TestPatch_DeleteNestedKey(t *testing.T) {
	oldData := map[string]interface{}{"a": map[string]interface{}{"x": "1", "y": "2"}}
	newData := map[string]interface{}{"a": map[string]interface{}{"x": "1"}}

	patched := ApplyPatch(oldData, CreatePatch(oldData, newData))

	assert.Equal(t, newData, patched)
}

func TestDecodePayload(t *testing.T) {
	obj, ok := DecodePayload(`{"title":"x"}`)
	assert.True(t, ok)
	assert.Equal(t, "x", obj["title"])

	_, ok = DecodePayload("plain text payload")
	assert.False(t, ok)

	_, ok = DecodePayload(`[1,2,3]`)
	assert.False(t, ok)
}
