// Package combination expands an attribute spec into every single-valued
// assignment it describes.
//
// A spec maps attribute names to comma separated candidate lists:
//
//	{"Color": "Red, Blue ,Green", "Size": "S,M"}
//
// Expand produces the cartesian product in spec order, naming each tuple
// "<template> - <value> - <value>". Precheck must run first: it rejects any
// pair the template does not know with an exact, case-sensitive lookup.
package combination
