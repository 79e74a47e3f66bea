// Package transport defines the application contract and the middleware
// chain every request is dispatched through.
//
// # Applications
//
// An [Application] handles one request by filling in the response. It may
// return an error instead; errors travel back up the chain unchanged until
// a middleware decides to translate them.
//
// # Middleware
//
// A [Middleware] wraps an Application. It forwards by calling the wrapped
// application and terminates the chain by not calling it. [Chain]
// composes middleware outermost first, and [Stack] is the ordered builder
// the server assembles its pipeline with.
//
// Built-in middleware provides panic recovery, request ID assignment
// (X-Request-ID) and structured logging via log/slog.
package transport
