// Package variant generates and matches item variants.
//
// A template item lists the attributes its variants vary on. The service
// expands attribute specs into variants, finds the variant carrying an exact
// attribute set, and builds or creates single variants after validating
// their values against the attribute catalog.
//
// Routes (all under /variants):
//
//	GET  /:template            list variants
//	POST /:template            create a variant
//	POST /:template/generate   create every combination of a spec
//	POST /:template/find       find a variant, or build a manufacturer variant
//	POST /:template/build      build an unsaved variant
//	POST /:template/validate   validate attribute values
//
// Validation errors answer 422, unknown items 404 and existing variants 409.
package variant
