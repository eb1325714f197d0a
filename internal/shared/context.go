package shared

import "context"

// Identity is the verified caller attached to each request by the auth
// middleware. CompanyID is the tenant-scoping key for every query; core
// operations receive it explicitly and never re-derive it in storage code.
type Identity struct {
	UserID    int64
	CompanyID int64
	RoleID    int64
}

// Role ids. The first user of a tenant is its admin; only admins manage the
// tenant's users.
const (
	RoleAdmin  int64 = 1
	RoleMember int64 = 2
)

// IsAdmin reports whether the caller holds the admin role.
func (i Identity) IsAdmin() bool { return i.RoleID == RoleAdmin }

type identityContextKey struct{}

// ContextWithIdentity stores the identity in context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the identity from context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}
