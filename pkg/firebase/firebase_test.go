package firebase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityFromClaims(t *testing.T) {
	id, err := identityFromClaims("uid-1", map[string]interface{}{
		"email":       "ana@example.com",
		"given_name":  "Ana",
		"family_name": "Lopez",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", id.GivenName)
	assert.Equal(t, "Lopez", id.FamilyName)
}

func TestIdentityFromClaims_SplitsDisplayName(t *testing.T) {
	id, err := identityFromClaims("uid-1", map[string]interface{}{
		"email": "ana@example.com",
		"name":  "Ana Maria Lopez",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", id.GivenName)
	assert.Equal(t, "Maria Lopez", id.FamilyName)
}

func TestIdentityFromClaims_RequiresEmail(t *testing.T) {
	_, err := identityFromClaims("uid-1", map[string]interface{}{"name": "Ana"})
	assert.Error(t, err)
}
