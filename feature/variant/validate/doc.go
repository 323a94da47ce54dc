// Package validate checks proposed attribute values against the attribute
// catalog.
//
// Numeric attributes accept values inside [from, to] that sit on an
// increment step counted from the lower bound; the remainder is rounded to
// the precision of the inputs before comparison. Discrete attributes accept
// exact members of their value list. Empty values are not validated.
package validate
