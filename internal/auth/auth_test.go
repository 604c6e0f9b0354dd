package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type mapStore map[string]string

func (m mapStore) OwnerForKeyHash(_ context.Context, hash string) (string, error) {
	owner, ok := m[hash]
	if !ok {
		return "", errors.New("not found")
	}
	return owner, nil
}

func TestAPIKeyResolver(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(key, "atk_"))

	resolver := NewAPIKeyResolver(mapStore{HashKey(key): "owner1"})

	owner, err := resolver.ResolveOwner(context.Background(), key)
	require.NoError(t, err)
	require.Equal(t, "owner1", owner)

	_, err = resolver.ResolveOwner(context.Background(), "atk_wrong")
	require.ErrorIs(t, err, ErrUnauthorized)
	_, err = resolver.ResolveOwner(context.Background(), " ")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestHashKey(t *testing.T) {
	require.Equal(t, HashKey("abc"), HashKey("abc"))
	require.NotEqual(t, HashKey("abc"), HashKey("abd"))
	require.Len(t, HashKey("abc"), 64)
}

func TestJWTResolver(t *testing.T) {
	ctx := context.Background()
	resolver := NewJWTResolver("secret", "archi-track")

	token, err := resolver.Issue("owner1", time.Hour)
	require.NoError(t, err)

	owner, err := resolver.ResolveOwner(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "owner1", owner)

	other := NewJWTResolver("other-secret", "archi-track")
	_, err = other.ResolveOwner(ctx, token)
	require.ErrorIs(t, err, ErrUnauthorized)

	wrongIssuer := NewJWTResolver("secret", "someone-else")
	_, err = wrongIssuer.ResolveOwner(ctx, token)
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = resolver.Issue("", time.Hour)
	require.Error(t, err)
}

func TestJWTResolver_Expired(t *testing.T) {
	resolver := NewJWTResolver("secret", "")
	resolver.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	token, err := resolver.Issue("owner1", time.Minute)
	require.NoError(t, err)

	resolver.now = func() time.Time { return time.Date(2025, 1, 1, 1, 0, 0, 0, time.UTC) }
	_, err = resolver.ResolveOwner(context.Background(), token)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestStaticResolver(t *testing.T) {
	owner, err := StaticResolver{OwnerID: "local"}.ResolveOwner(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, "local", owner)

	_, err = StaticResolver{}.ResolveOwner(context.Background(), "x")
	require.ErrorIs(t, err, ErrUnauthorized)
}
