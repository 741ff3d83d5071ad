package port

import "context"

// Gateway is the single entry point for backend calls. Implementations attach
// the bearer header when a credential is stored, enforce the request timeout,
// and classify every failure into a domain.APIError (or domain.ErrSessionEnded
// once the session-invalidation policy has already run).
//
// The returned body is the parsed response: a map for JSON objects, a string
// for plain text, nil when the response carried no body.
type Gateway interface {
	Get(ctx context.Context, path string) (any, error)
	Post(ctx context.Context, path string, body any) (any, error)
	Put(ctx context.Context, path string, body any) (any, error)
}
