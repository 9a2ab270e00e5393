package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptional(t *testing.T) {
	t.Run("absent by default", func(t *testing.T) {
		var o Optional[int]
		v, ok := o.Get()
		assert.False(t, ok)
		assert.Equal(t, 0, v)
		assert.True(t, o.IsZero())
		assert.Nil(t, o.Ptr())
		assert.Equal(t, 7, o.OrElse(7))
	})

	t.Run("present", func(t *testing.T) {
		o := Some(42)
		v, ok := o.Get()
		assert.True(t, ok)
		assert.Equal(t, 42, v)
		assert.False(t, o.IsZero())
		require.NotNil(t, o.Ptr())
		assert.Equal(t, 42, *o.Ptr())
		assert.Equal(t, 42, o.OrElse(7))
	})

	t.Run("present zero value is still set", func(t *testing.T) {
		o := Some(false)
		assert.True(t, o.IsSet())
		assert.False(t, o.OrElse(true))
	})

	t.Run("from pointer", func(t *testing.T) {
		s := "x"
		assert.Equal(t, Some("x"), FromPtr(&s))
		assert.Equal(t, None[string](), FromPtr[string](nil))
	})
}

func TestOptionalJSON(t *testing.T) {
	type doc struct {
		Count Optional[int]    `json:"count,omitzero"`
		Name  Optional[string] `json:"name,omitzero"`
	}

	data, err := json.Marshal(doc{Count: Some(0)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":0}`, string(data))

	var decoded doc
	require.NoError(t, json.Unmarshal([]byte(`{"count":3,"name":null}`), &decoded))
	assert.Equal(t, Some(3), decoded.Count)
	assert.False(t, decoded.Name.IsSet())

	require.Error(t, json.Unmarshal([]byte(`{"count":"three"}`), &decoded))
}
