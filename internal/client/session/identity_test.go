package session

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIdentity_KeepsUnknownFields(t *testing.T) {
	id, err := ParseIdentity([]byte(`{"username":"alice","is_admin":true,"id":7,"email":"a@x"}`))
	require.NoError(t, err)

	assert.Equal(t, "alice", id.Username)
	assert.True(t, id.IsAdmin)
	assert.Equal(t, json.RawMessage(`7`), id.Extra["id"])
	assert.Equal(t, json.RawMessage(`"a@x"`), id.Extra["email"])

	b, err := json.Marshal(id)
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"alice","is_admin":true,"id":7,"email":"a@x"}`, string(b))
}

func TestParseIdentity_Rejects(t *testing.T) {
	for _, raw := range []string{``, `null`, `[]`, `"alice"`, `{"username":5}`, `{"is_admin":"yes"}`, `{broken`} {
		_, err := ParseIdentity([]byte(raw))
		assert.ErrorIs(t, err, ErrMalformedIdentity, raw)
	}
}

func TestParseIdentity_MissingFieldsDefault(t *testing.T) {
	id, err := ParseIdentity([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, &Identity{}, id)
}

func TestClone_IsDeep(t *testing.T) {
	orig := &Identity{Username: "bob", Extra: map[string]json.RawMessage{"id": json.RawMessage(`1`)}}
	c := orig.Clone()
	c.Extra["id"][0] = '2'
	c.Username = "eve"

	assert.Equal(t, json.RawMessage(`1`), orig.Extra["id"])
	assert.Equal(t, "bob", orig.Username)

	var nilID *Identity
	assert.Nil(t, nilID.Clone())
}
