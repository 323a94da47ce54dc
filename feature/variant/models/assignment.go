package models

import (
	"sort"
	"strings"
)

// Assignment maps attribute names to a single value each.
type Assignment map[string]string

// AttributePair is one (attribute, value) pair of an assignment.
type AttributePair struct {
	Attribute string
	Value     string
}

// Keys returns the attribute names in sorted order.
func (a Assignment) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Pairs returns the assignment as pairs sorted by attribute name.
func (a Assignment) Pairs() []AttributePair {
	pairs := make([]AttributePair, 0, len(a))
	for _, k := range a.Keys() {
		pairs = append(pairs, AttributePair{Attribute: k, Value: a[k]})
	}
	return pairs
}

// Lookup returns the value for an attribute. An exact key wins over a
// case-insensitive one.
func (a Assignment) Lookup(attribute string) (string, bool) {
	if v, ok := a[attribute]; ok {
		return v, true
	}
	for _, k := range a.Keys() {
		if strings.EqualFold(k, attribute) {
			return a[k], true
		}
	}
	return "", false
}

// AssignmentOf builds the assignment carried by an item's attribute rows.
func AssignmentOf(item *Item) Assignment {
	a := make(Assignment, len(item.Attributes))
	for _, row := range item.Attributes {
		a[row.Attribute] = row.AttributeValue
	}
	return a
}
