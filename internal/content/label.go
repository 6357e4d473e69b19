package content

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// labelFromName turns a file or directory name such as "quick_start" or
// "self-hosting" into "Quick Start" / "Self Hosting".
func labelFromName(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	if len(words) == 0 {
		return name
	}
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// labelCollator orders navigation labels case-insensitively.
func labelCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase)
}
