// Package auth provides pluggable authentication for the request pipeline.
//
// Authentication uses a chain-of-responsibility pattern with three-outcome
// voting: each authenticator returns Yes (identity found), No (credentials
// invalid), or Abstain (can't handle). A configurable default voter decides
// when all authenticators abstain.
//
// Auth is implemented as middleware, keeping it decoupled from the
// applications it protects. The authenticated identity is available to the
// rest of the chain through IdentityFrom.
package auth
