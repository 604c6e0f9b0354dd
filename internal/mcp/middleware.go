package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/JRocha1994/archi-track/internal/transport"
)

var errUnauthorized = errors.New("unauthorized")

// OwnerResolver resolves an owner ID from a bearer token.
type OwnerResolver interface {
	ResolveOwner(ctx context.Context, token string) (string, error)
}

// ownerFunc finds the owner a request acts for from its HTTP headers. The
// headers are nil on stdio.
type ownerFunc func(ctx context.Context, header http.Header) (string, error)

func getOwnerID(ctx context.Context) string {
	ownerID, _ := transport.OwnerFromContext(ctx)
	return ownerID
}

// ownerMiddleware attributes every request except the protocol handshake to
// the owner identify returns.
func ownerMiddleware(identify ownerFunc) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if isHandshake(method) {
				return next(ctx, method, req)
			}
			var header http.Header
			if extra := req.GetExtra(); extra != nil {
				header = extra.Header
			}
			ownerID, err := identify(ctx, header)
			if err != nil {
				return nil, err
			}
			return next(transport.WithOwner(ctx, ownerID), method, req)
		}
	}
}

func isHandshake(method string) bool {
	return method == "initialize" || method == "ping" || strings.HasPrefix(method, "notifications/")
}

// bearerOwner authenticates the Authorization header with resolver.
func bearerOwner(resolver OwnerResolver) ownerFunc {
	return func(ctx context.Context, header http.Header) (string, error) {
		token := transport.BearerToken(header)
		if token == "" {
			return "", fmt.Errorf("%w: missing bearer token", errUnauthorized)
		}
		ownerID, err := resolver.ResolveOwner(ctx, token)
		if err != nil {
			return "", fmt.Errorf("%w: %v", errUnauthorized, err)
		}
		if ownerID == "" {
			return "", fmt.Errorf("%w: invalid bearer token", errUnauthorized)
		}
		return ownerID, nil
	}
}

// fixedOwner attributes every request to ownerID; used when auth is off.
func fixedOwner(ownerID string) ownerFunc {
	return func(context.Context, http.Header) (string, error) {
		return ownerID, nil
	}
}
