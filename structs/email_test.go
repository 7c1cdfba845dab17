package structs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressListUnmarshal(t *testing.T) {
	t.Run("bare string", func(t *testing.T) {
		var l AddressList
		require.NoError(t, json.Unmarshal([]byte(`"joanne@example.com"`), &l))
		require.Len(t, l, 1)
		assert.Equal(t, "joanne@example.com", l[0].Email)
		assert.Empty(t, l[0].Name)
	})

	t.Run("single object", func(t *testing.T) {
		var l AddressList
		require.NoError(t, json.Unmarshal([]byte(`{"email":"joanne@example.com","name":"Joanne"}`), &l))
		require.Len(t, l, 1)
		assert.Equal(t, "Joanne", l[0].Name)
	})

	t.Run("mixed list", func(t *testing.T) {
		var l AddressList
		data := `["plain@example.com", {"email":"named@example.com","name":"Named"}]`
		require.NoError(t, json.Unmarshal([]byte(data), &l))
		require.Len(t, l, 2)
		assert.Equal(t, "plain@example.com", l[0].Email)
		assert.Equal(t, "named@example.com", l[1].Email)
		assert.Equal(t, "Named", l[1].Name)
	})

	t.Run("null", func(t *testing.T) {
		var l AddressList
		require.NoError(t, json.Unmarshal([]byte(`null`), &l))
		assert.Nil(t, l)
	})

	t.Run("rejects numbers", func(t *testing.T) {
		var l AddressList
		assert.Error(t, json.Unmarshal([]byte(`42`), &l))
	})
}

func TestAddressRendering(t *testing.T) {
	assert.Equal(t, "Joanne <joanne@example.com>", EmailAddress{Email: "joanne@example.com", Name: "Joanne"}.String())
	assert.Equal(t, "joanne@example.com", EmailAddress{Email: "joanne@example.com"}.String())

	l := AddressList{
		{Email: "a@example.com"},
		{Email: "b@example.com", Name: "B"},
	}
	assert.Equal(t, []string{"a@example.com", "B <b@example.com>"}, l.Strings())
	assert.Equal(t, "a@example.com", l.First())
	assert.Empty(t, AddressList{}.First())
}

func TestPayloadNormalize(t *testing.T) {
	p := &EmailPayload{
		To:   AddressList{{Email: "  joanne@example.com ", Name: " Joanne "}},
		From: AddressList{{Email: " assignments@luminolearning.com "}},
	}
	p.Normalize()

	assert.Equal(t, "joanne@example.com", p.To[0].Email)
	assert.Equal(t, "Joanne", p.To[0].Name)
	assert.Equal(t, "assignments@luminolearning.com", p.From[0].Email)
}
