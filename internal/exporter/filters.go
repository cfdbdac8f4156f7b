package exporter

import (
	"github.com/jomei/notionapi"
)

// filterRegistry is the closed set of named query filters. New filters
// are added here alongside the code; an unknown name at runtime is a
// soft no-op, not an error.
var filterRegistry = map[string]notionapi.Filter{
	"life": notionapi.PropertyFilter{
		Property: "category",
		Select: &notionapi.SelectFilterCondition{
			Equals: "Life",
		},
	},
	"published": notionapi.PropertyFilter{
		Property: "published",
		Checkbox: &notionapi.CheckboxFilterCondition{
			Equals: true,
		},
	},
}

// lookupFilter returns the named filter, or nil with ok=false when the
// name is not registered.
func lookupFilter(name string) (notionapi.Filter, bool) {
	filter, ok := filterRegistry[name]
	return filter, ok
}
