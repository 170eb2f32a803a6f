package api

import (
	"context"

	"github.com/rpupo63/personal-blog-backend/errs"
	"github.com/rpupo63/personal-blog-backend/services"
)

type keyType string

const (
	identityKey keyType = "identity"
)

// ctxWithIdentity adds the authenticated caller to the context
func ctxWithIdentity(ctx context.Context, identity *services.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// ctxGetIdentity retrieves the authenticated caller from the context
func ctxGetIdentity(ctx context.Context) (*services.Identity, error) {
	identity, ok := ctx.Value(identityKey).(*services.Identity)
	if !ok || identity == nil {
		return nil, errs.Unauthorized
	}
	return identity, nil
}
