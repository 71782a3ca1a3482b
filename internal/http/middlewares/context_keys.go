package middlewares

type ctxKey string

const (
	CtxAccountID ctxKey = "accountID"
	CtxRequestID ctxKey = "requestID"
)
