// Package utils provides loose type conversion for values that arrive as
// decoded JSON or query parameters, such as attribute values sent to the
// variant endpoints and boolean query flags.
package utils
