package services

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voiceconnect/backend/pkg/internal/models"
)

func TestAccessTokenRoundtrip(t *testing.T) {
	viper.Set("security.access_token_secret", "unit-test-secret")
	viper.Set("security.access_token_duration", 3600)

	tk, err := EncodeAccessToken(models.Account{ID: "u1"})
	require.NoError(t, err)
	require.NotEmpty(t, tk)

	claims, err := ParseAccessToken(tk)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "voiceconnect", claims.Issuer)
}

func TestParseAccessTokenRejectsTampering(t *testing.T) {
	viper.Set("security.access_token_secret", "unit-test-secret")
	viper.Set("security.access_token_duration", 3600)

	tk, err := EncodeAccessToken(models.Account{ID: "u1"})
	require.NoError(t, err)

	_, err = ParseAccessToken(tk + "junk")
	assert.Error(t, err)

	viper.Set("security.access_token_secret", "a-different-secret")
	_, err = ParseAccessToken(tk)
	assert.Error(t, err)
}
