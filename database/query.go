package database

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains builds a LIKE pattern matching s anywhere. Use with ESCAPE '\'.
func Contains(s string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(s)) + "%"
}

// JSONArrayHas is a WHERE fragment: the JSON array column holds the bound value.
func JSONArrayHas(column string) string {
	return "EXISTS (SELECT 1 FROM json_each(" + column + ") WHERE json_each.value = ?)"
}

// JSONArrayHasAny is JSONArrayHas for a bound list of values.
func JSONArrayHasAny(column string) string {
	return "EXISTS (SELECT 1 FROM json_each(" + column + ") WHERE json_each.value IN ?)"
}
