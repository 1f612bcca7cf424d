package rbac

import "context"

type ctxKey string

const (
	ctxKeyRole ctxKey = "role"
	ctxKeySub  ctxKey = "sub"
)

func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, ctxKeyRole, role)
}

func RoleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyRole).(string); ok {
		return v
	}
	return ""
}

func WithSubject(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, ctxKeySub, sub)
}

func SubjectFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeySub).(string); ok {
		return v
	}
	return ""
}
