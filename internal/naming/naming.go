// Package naming converts identifiers between the JSON, field and column conventions
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
)

// ToFieldName lower-cases the first character of a JSON key and leaves the rest as is.
// "UserName" becomes "userName". An empty key is returned unchanged.
func ToFieldName(jsonKey string) string {
	if jsonKey == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(jsonKey)
	return string(unicode.ToLower(r)) + jsonKey[size:]
}

// ToStorageName converts a field name to its column name by replacing every upper-case
// character with an underscore followed by its lower-case form. Runs of capitals are not
// merged, so "userID" becomes "user_i_d".
func ToStorageName(fieldName string) string {
	if fieldName == strings.ToLower(fieldName) {
		return fieldName
	}

	var b strings.Builder
	b.Grow(len(fieldName) + 4)
	for _, r := range fieldName {
		if unicode.IsUpper(r) {
			b.WriteByte('_')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ClassName normalises a user-typed class name to PascalCase ("order item" -> "OrderItem").
func ClassName(raw string) string {
	return strcase.ToCamel(strings.TrimSpace(raw))
}

// Literal wraps s in double quotes for the generated source. The text is copied verbatim,
// so a key reaches the generated code exactly as it was typed.
func Literal(s string) string {
	return `"` + s + `"`
}
