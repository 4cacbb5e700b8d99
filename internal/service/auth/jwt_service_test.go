package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/kofadam/asahi-x-family/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret  = "test-secret-that-is-long-enough-for-testing"
	wrongSecret = "wrong-secret-that-is-long-enough-for-testing"
)

var fixedTime = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, secret string, at time.Time) *hmacJWTService {
	t.Helper()
	svc, err := newHMACJWTService(secret, time.Hour, func() time.Time { return at })
	require.NoError(t, err)
	return svc
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{JWTSecret: "short", TokenLifetimeMinutes: 60})
	assert.Error(t, err)

	_, err = NewJWTService(config.AuthConfig{JWTSecret: testSecret})
	assert.Error(t, err, "zero lifetime")

	svc, err := NewJWTService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 60})
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, testSecret, fixedTime)
	profileID := uuid.New()

	token, err := svc.GenerateToken(context.Background(), profileID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, profileID, claims.ProfileID)
	assert.Equal(t, profileID.String(), claims.Subject)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func signRaw(t *testing.T, claims jwtCustomClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	profileID := uuid.New()
	issue := func(t *testing.T, at time.Time) string {
		token, err := newTestService(t, testSecret, at).GenerateToken(context.Background(), profileID)
		require.NoError(t, err)
		return token
	}

	tests := []struct {
		name    string
		token   func(t *testing.T) string
		secret  string
		at      time.Time
		wantErr error
	}{
		{
			name:   "valid token",
			token:  func(t *testing.T) string { return issue(t, fixedTime) },
			secret: testSecret,
			at:     fixedTime.Add(30 * time.Minute),
		},
		{
			name:   "within clock skew after expiry",
			token:  func(t *testing.T) string { return issue(t, fixedTime) },
			secret: testSecret,
			at:     fixedTime.Add(time.Hour + time.Minute),
		},
		{
			name:    "expired token",
			token:   func(t *testing.T) string { return issue(t, fixedTime) },
			secret:  testSecret,
			at:      fixedTime.Add(2 * time.Hour),
			wantErr: ErrExpiredToken,
		},
		{
			name:    "invalid signature",
			token:   func(t *testing.T) string { return issue(t, fixedTime) },
			secret:  wrongSecret,
			at:      fixedTime,
			wantErr: ErrInvalidToken,
		},
		{
			name:    "malformed token",
			token:   func(*testing.T) string { return "this.is.not.a.valid.jwt.token" },
			secret:  testSecret,
			at:      fixedTime,
			wantErr: ErrInvalidToken,
		},
		{
			name:    "missing token",
			token:   func(*testing.T) string { return "" },
			secret:  testSecret,
			at:      fixedTime,
			wantErr: ErrMissingToken,
		},
		{
			name: "not yet valid",
			token: func(t *testing.T) string {
				return signRaw(t, jwtCustomClaims{
					ProfileID: profileID,
					TokenType: TokenTypeAccess,
					RegisteredClaims: jwt.RegisteredClaims{
						Subject:   profileID.String(),
						NotBefore: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
						ExpiresAt: jwt.NewNumericDate(fixedTime.Add(2 * time.Hour)),
					},
				})
			},
			secret:  testSecret,
			at:      fixedTime,
			wantErr: ErrTokenNotYetValid,
		},
		{
			name: "wrong token type",
			token: func(t *testing.T) string {
				return signRaw(t, jwtCustomClaims{
					ProfileID: profileID,
					TokenType: "refresh",
					RegisteredClaims: jwt.RegisteredClaims{
						Subject:   profileID.String(),
						ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
					},
				})
			},
			secret:  testSecret,
			at:      fixedTime,
			wantErr: ErrWrongTokenType,
		},
		{
			name: "subject mismatch",
			token: func(t *testing.T) string {
				return signRaw(t, jwtCustomClaims{
					ProfileID: profileID,
					TokenType: TokenTypeAccess,
					RegisteredClaims: jwt.RegisteredClaims{
						Subject:   uuid.New().String(),
						ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
					},
				})
			},
			secret:  testSecret,
			at:      fixedTime,
			wantErr: ErrInvalidToken,
		},
		{
			name: "unexpected signing method",
			token: func(t *testing.T) string {
				token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwtCustomClaims{
					ProfileID: profileID,
					TokenType: TokenTypeAccess,
					RegisteredClaims: jwt.RegisteredClaims{
						Subject:   profileID.String(),
						ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
					},
				}).SignedString([]byte(testSecret))
				require.NoError(t, err)
				return token
			},
			secret:  testSecret,
			at:      fixedTime,
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			token := tt.token(t)
			svc := newTestService(t, tt.secret, tt.at)

			claims, err := svc.ValidateToken(context.Background(), token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, profileID, claims.ProfileID)
		})
	}
}

func TestMockJWTService(t *testing.T) {
	t.Parallel()

	profileID := uuid.New()
	mock := NewMockJWTService(profileID)

	token, err := mock.GenerateToken(context.Background(), profileID)
	require.NoError(t, err)
	claims, err := mock.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, profileID, claims.ProfileID)

	mock.ValidationError = ErrExpiredToken
	_, err = mock.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
