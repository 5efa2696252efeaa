package google

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	p, err := normalize([]byte(`{"sub":"123","email":"a@b.com","name":"A","given_name":"A"}`))
	require.NoError(t, err)
	assert.Equal(t, "123", p.ID)
	assert.Equal(t, "a@b.com", p.Email)
	assert.Equal(t, "A", p.Name)
}

func TestNormalize_NullNameFallsBack(t *testing.T) {
	p, err := normalize([]byte(`{"sub":"123","email":"a@b.com","name":null}`))
	require.NoError(t, err)
	assert.Equal(t, "Unknown", p.Name)
}

func TestNormalize_Rejects(t *testing.T) {
	cases := map[string]string{
		"missing sub":   `{"email":"a@b.com","name":"A"}`,
		"missing email": `{"sub":"123","name":"A"}`,
		"bad email":     `{"sub":"123","email":"not-an-email","name":"A"}`,
		"not json":      `<!doctype html>`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := normalize([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestNew_DefaultScopes(t *testing.T) {
	p := New("id", "secret", nil)
	assert.Equal(t, []string{"openid", "email", "profile"}, p.Scopes)
	assert.Equal(t, "google", p.Name)
}
