// Package naming converts table and column names into class, accessor and
// Go identifiers.
package naming

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	rules  = inflect.NewDefaultRuleset()
	titler = cases.Title(language.Und, cases.NoLower)

	// acronyms are upper-cased whole in Go identifiers
	acronyms = map[string]bool{
		"api":  true,
		"html": true,
		"http": true,
		"id":   true,
		"ip":   true,
		"json": true,
		"sql":  true,
		"uri":  true,
		"url":  true,
		"uuid": true,
	}
)

// words splits a name on underscores, dashes, spaces and dots
func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Studly converts order_items to OrderItems
func Studly(s string) string {
	var b strings.Builder
	for _, w := range words(s) {
		b.WriteString(titler.String(w))
	}
	return b.String()
}

// Camel converts order_items to orderItems
func Camel(s string) string {
	return lowerFirst(Studly(s))
}

// Singular returns the singular form of the last word of a name
func Singular(s string) string {
	return rules.Singularize(s)
}

// Plural returns the plural form of the last word of a name
func Plural(s string) string {
	return rules.Pluralize(s)
}

// Entity returns the class name of the entity stored in a table
func Entity(table string) string {
	return Studly(Singular(table))
}

// GoName converts a column or table name to an exported Go identifier, keeping acronyms whole
func GoName(s string) string {
	var b strings.Builder
	for _, w := range words(s) {
		if acronyms[strings.ToLower(w)] {
			b.WriteString(strings.ToUpper(w))
			continue
		}
		b.WriteString(titler.String(w))
	}

	name := b.String()
	if name == "" || unicode.IsDigit(rune(name[0])) {
		name = "X" + name
	}
	return name
}

// Snake lower-cases a name and joins its words with underscores
func Snake(s string) string {
	return strings.ToLower(strings.Join(words(s), "_"))
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
