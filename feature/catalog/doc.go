// Package catalog imports and exports the attribute catalog.
//
// The catalog travels as one JSON document in object storage:
//
//	{
//	  "attributes": [
//	    {"name": "Color", "values": [{"value": "Red", "abbr": "RD"}]},
//	    {"name": "Length", "numeric_values": true,
//	     "from_range": 10, "to_range": 20, "increment": 2}
//	  ],
//	  "templates": [
//	    {"item_code": "CABLE", "item_name": "Cable",
//	     "attributes": ["Color", "Length"]}
//	  ]
//	}
//
// The whole document is validated before anything is written. Attributes
// are upserted by name with their values replaced; templates are matched by
// item code. Every import drops the cached attribute catalog.
//
// Diff reports the drift between a document and the database per attribute
// and per template, using the reconcile engine.
//
// Routes: POST /catalog/import, POST /catalog/export, GET /catalog/status,
// GET /catalog/diff and POST /catalog/refresh.
package catalog
