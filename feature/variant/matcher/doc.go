// Package matcher locates an existing variant by its attribute set.
//
// Matching runs in two phases. The store first returns every variant of the
// template sharing at least one (attribute, value) pair with the request.
// Each candidate is then compared in memory: the row count must equal the
// number of requested attributes and every pair must match exactly.
//
// A lookup followed by a create is not atomic. Two concurrent requests can
// both miss and both insert; the unique item code index is the final guard.
package matcher
