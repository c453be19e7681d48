package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/piresc/tebengan/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestConfig() models.JWTConfig {
	return models.JWTConfig{
		Secret:     "test-secret-key-for-jwt-signing",
		Expiration: 60,
		Issuer:     "tebengan-test",
	}
}

func TestGenerateAndParse(t *testing.T) {
	tests := []struct {
		name string
		role models.Role
	}{
		{name: "driver", role: models.RoleDriver},
		{name: "passenger", role: models.RolePassenger},
		{name: "admin", role: models.RoleAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor := models.Actor{ID: uuid.New(), Role: tt.role}

			token, expiresAt, err := GenerateToken(actor, getTestConfig())
			require.NoError(t, err)
			assert.NotEmpty(t, token)
			assert.Greater(t, expiresAt, time.Now().Unix())

			parsed, err := ParseActor(token, getTestConfig())
			require.NoError(t, err)
			assert.Equal(t, actor, parsed)
		})
	}
}

func TestParseActor_WrongSecret(t *testing.T) {
	token, _, err := GenerateToken(models.Actor{ID: uuid.New(), Role: models.RoleDriver}, getTestConfig())
	require.NoError(t, err)

	cfg := getTestConfig()
	cfg.Secret = "another-secret"
	_, err = ParseActor(token, cfg)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseActor_Expired(t *testing.T) {
	cfg := getTestConfig()
	cfg.Expiration = -1
	token, _, err := GenerateToken(models.Actor{ID: uuid.New(), Role: models.RoleDriver}, cfg)
	require.NoError(t, err)

	_, err = ParseActor(token, getTestConfig())

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseActor_WrongIssuer(t *testing.T) {
	cfg := getTestConfig()
	cfg.Issuer = "somebody-else"
	token, _, err := GenerateToken(models.Actor{ID: uuid.New(), Role: models.RoleDriver}, cfg)
	require.NoError(t, err)

	_, err = ParseActor(token, getTestConfig())

	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestParseActor_InvalidClaims(t *testing.T) {
	sign := func(claims jwt.MapClaims) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(getTestConfig().Secret))
		require.NoError(t, err)
		return token
	}
	exp := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name   string
		claims jwt.MapClaims
	}{
		{name: "missing user_id", claims: jwt.MapClaims{"role": "driver", "iss": "tebengan-test", "exp": exp}},
		{name: "unknown role", claims: jwt.MapClaims{"user_id": uuid.NewString(), "role": "pilot", "iss": "tebengan-test", "exp": exp}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseActor(sign(tt.claims), getTestConfig())
			assert.ErrorIs(t, err, ErrInvalidClaims)
		})
	}
}

func TestParseActor_RejectsOtherSigningMethods(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": uuid.NewString(),
		"role":    "admin",
	})
	tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseActor(tokenString, getTestConfig())

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseActor_Garbage(t *testing.T) {
	_, err := ParseActor("not.a.token", getTestConfig())
	assert.ErrorIs(t, err, ErrInvalidToken)
}
