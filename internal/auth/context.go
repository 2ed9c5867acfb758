package auth

import "context"

type ctxKey int

const requestInfoKey ctxKey = iota

// RequestInfo is transport metadata the flow uses for audit records and
// email localisation.
type RequestInfo struct {
	IP        string
	UserAgent string
	Locale    string
}

func WithRequestInfo(ctx context.Context, info RequestInfo) context.Context {
	return context.WithValue(ctx, requestInfoKey, info)
}

func RequestInfoFromContext(ctx context.Context) RequestInfo {
	info, _ := ctx.Value(requestInfoKey).(RequestInfo)
	return info
}
