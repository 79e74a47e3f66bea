// Package api defines the entity model exchanged along a request pipeline.
//
// A [Request] and a [Response] are created once per exchange by the
// transport and handed, by pointer, to every middleware and application in
// turn. Both are mutable and not safe for concurrent use; dispatch is
// synchronous so only one component touches them at a time.
//
// Core types:
//   - [Request]: inbound message plus typed per-request attributes
//   - [Response]: status, headers, cookies to set and a buffered body
//   - [Headers]: case-insensitive header multimap
//   - [Cookie]: immutable cookie value object
//   - [Key]: typed attribute key
//
// Bodies default to the ISO-8859-1 charset when the Content-Type header
// declares none.
//
// The package performs no network I/O.
package api
