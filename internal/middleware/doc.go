// Package middleware provides the HTTP middleware wrapped around the
// activities router.
//
// Middleware is composed with Chain, outermost first:
//
//	handler := middleware.Chain(mux,
//		middleware.RequestID,
//		middleware.Logger(log),
//		middleware.Recovery(log),
//		middleware.CORS(origins),
//		middleware.RateLimit(limiter),
//		middleware.Idempotency(store),
//		middleware.Compress,
//		middleware.Metrics,
//	)
//
// Metrics reads the matched ServeMux pattern after the request completes, so
// it must wrap the mux directly.
//
// # Context Values
//
//   - GetRequestID(ctx): the X-Request-ID of the current request
//
// Rate limiting and idempotency are keyed by ClientIP since the API has no
// authenticated principal.
package middleware
