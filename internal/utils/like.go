package utils

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes the LIKE wildcard characters in a user-supplied
// fragment so they match literally. Queries built with it must carry an
// ESCAPE '\' clause.
func EscapeLike(fragment string) string {
	return likeEscaper.Replace(fragment)
}
