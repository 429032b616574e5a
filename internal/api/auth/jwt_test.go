package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_SignVerify(t *testing.T) {
	j := NewJWT("secret", "accessflow")

	token, err := j.Sign("user-1", time.Hour)
	require.NoError(t, err)

	sub, err := j.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)
}

func TestJWT_VerifyRejects(t *testing.T) {
	j := NewJWT("secret", "accessflow")

	expired, err := j.Sign("user-1", -time.Minute)
	require.NoError(t, err)

	otherSecret, err := NewJWT("other", "accessflow").Sign("user-1", time.Hour)
	require.NoError(t, err)

	otherIssuer, err := NewJWT("secret", "someone-else").Sign("user-1", time.Hour)
	require.NoError(t, err)

	noSubject, err := j.Sign("", time.Hour)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "user-1",
		Issuer:  "accessflow",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	wrongAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "accessflow",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expired},
		{"wrong secret", otherSecret},
		{"wrong issuer", otherIssuer},
		{"missing subject", noSubject},
		{"missing expiry", noExpiry},
		{"wrong algorithm", wrongAlg},
		{"garbage", "not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := j.Verify(tt.token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidToken))
		})
	}
}

func TestJWT_IssuerOptional(t *testing.T) {
	token, err := NewJWT("secret", "anyone").Sign("user-1", time.Hour)
	require.NoError(t, err)

	sub, err := NewJWT("secret", "").Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc.def", "abc.def", false},
		{"bearer abc.def", "abc.def", false},
		{"Bearer   abc.def ", "abc.def", false},
		{"", "", true},
		{"Bearer", "", true},
		{"Bearer ", "", true},
		{"Basic dXNlcjpwdw==", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := BearerToken(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMissingToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
