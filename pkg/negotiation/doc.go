// Package negotiation implements the content negotiation helpers used by
// the request pipeline: Accept-Language parsing with quality-weighted locale
// selection, and Content-Type parsing with charset resolution.
//
// Parsing here is tolerant. Malformed quality values, unparseable language
// ranges, unknown charsets and broken media type parameters are recovered
// locally with a documented fallback and never reported as errors.
package negotiation
