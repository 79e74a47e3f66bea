// Package middleware provides the stock middleware a molecule server is
// assembled from: locale negotiation, cookie jars, standard response
// headers, error translation and rate limiting.
package middleware
