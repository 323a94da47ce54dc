// Package integrity provides health checks for the variant manager's
// infrastructure.
//
// # Checks Provided
//
//   - Structure: the catalog bucket holds the catalog/ and exports/ folders.
//   - Catalog: the configured catalog document is present in the bucket.
//   - Schema: the connected database matches the item, attribute and variant
//     models (columns and declared types).
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/structure : Runs structure check (supports ?fix=true).
//   - GET /integrity/catalog : Runs catalog document check.
//   - GET /integrity/schema : Runs schema check.
package integrity
