package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID   ctxKey = "user_id"
	CtxKeyRole     ctxKey = "role"
	CtxKeyUsername ctxKey = "username"
)

// Principal is the verified identity behind a bearer token.
type Principal struct {
	UserID   string
	Username string
	Role     string
}

func contextWithPrincipal(ctx context.Context, p Principal) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, p.UserID)
	ctx = context.WithValue(ctx, CtxKeyUsername, p.Username)
	ctx = context.WithValue(ctx, CtxKeyRole, p.Role)
	return ctx
}

// PrincipalFromContext returns the identity stored by AuthnMiddleware.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	id, ok := ctx.Value(CtxKeyUserID).(string)
	if !ok || id == "" {
		return Principal{}, false
	}
	username, _ := ctx.Value(CtxKeyUsername).(string)
	role, _ := ctx.Value(CtxKeyRole).(string)
	return Principal{UserID: id, Username: username, Role: role}, true
}
