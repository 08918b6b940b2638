// Package imports turns a flat list of identifier names into the import
// header of an extracted UI file.
package imports

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Category classifies an identifier into the kind of import it needs.
type Category string

const (
	// Unclassified identifiers match no rule and produce no import.
	Unclassified Category = "unclassified"

	// Type identifiers are merged into one named import from the types module.
	Type Category = "type"

	// Service identifiers are imported one per statement from the services dir.
	Service Category = "service"

	// Component identifiers (modals, editors) are imported from sibling modules.
	Component Category = "component"
)

func (c Category) String() string { return string(c) }

// ServiceSuffix is the exact-case suffix that selects the named service form.
const ServiceSuffix = "Service"

// Classify applies the classification rules in order; the first match wins.
func Classify(id string) Category {
	hasService := strings.Contains(strings.ToLower(id), "service")
	isWidget := strings.Contains(id, "Modal") || strings.Contains(id, "Editor")

	switch {
	case startsUpper(id) && !hasService && !isWidget:
		return Type
	case hasService:
		return Service
	case isWidget:
		return Component
	default:
		return Unclassified
	}
}

// HasServiceSuffix reports whether id ends with the literal "Service".
// Casing matters: "projectService" qualifies, "projectservice" does not.
func HasServiceSuffix(id string) bool {
	return strings.HasSuffix(id, ServiceSuffix)
}

func startsUpper(id string) bool {
	r, _ := utf8.DecodeRuneInString(id)
	return r != utf8.RuneError && unicode.IsUpper(r)
}
