package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDUnmarshal(t *testing.T) {
	var body struct {
		Restaurant ID  `json:"restaurante_id"`
		Category   *ID `json:"categoria_id"`
		Courier    *ID `json:"entregador_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"restaurante_id":"3","categoria_id":"","entregador_id":null}`), &body))
	assert.Equal(t, ID(3), body.Restaurant)
	assert.Nil(t, body.Category.Ref())
	assert.Nil(t, body.Courier.Ref())

	require.NoError(t, json.Unmarshal([]byte(`{"restaurante_id":4,"categoria_id":" 2 "}`), &body))
	assert.Equal(t, ID(4), body.Restaurant)
	require.NotNil(t, body.Category.Ref())
	assert.Equal(t, uint(2), *body.Category.Ref())

	var typeErr *json.UnmarshalTypeError
	err := json.Unmarshal([]byte(`{"restaurante_id":"abc"}`), &body)
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "restaurante_id", typeErr.Field)

	assert.Error(t, json.Unmarshal([]byte(`{"restaurante_id":-1}`), &body))
	assert.Error(t, json.Unmarshal([]byte(`{"restaurante_id":true}`), &body))
}
