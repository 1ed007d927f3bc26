package jwtx_test

import (
	"testing"

	"github.com/aussiebroadwan/authguard/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestClaimsUserID(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		want    int64
		wantErr bool
	}{
		{"numeric", "42", 42, false},
		{"large", "9007199254740993", 9007199254740993, false},
		{"empty", "", 0, true},
		{"zero", "0", 0, true},
		{"negative", "-1", 0, true},
		{"not a number", "alice", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: tt.subject}}
			got, err := c.UserID()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestClaimsNeedsMFAVerification(t *testing.T) {
	require.False(t, jwtx.Claims{}.NeedsMFAVerification())
	require.True(t, jwtx.Claims{MFAEnabled: true}.NeedsMFAVerification())
	require.False(t, jwtx.Claims{MFAEnabled: true, MFAVerified: true}.NeedsMFAVerification())
}
