package project

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// ligatures maps letters that do not decompose into a base letter plus
// combining marks.
var ligatures = map[rune]string{
	'ß': "ss", 'æ': "ae", 'Æ': "Ae", 'œ': "oe", 'Œ': "Oe",
	'ø': "o", 'Ø': "O", 'đ': "d", 'Đ': "D", 'ð': "d", 'Ð': "D",
	'ł': "l", 'Ł': "L", 'þ': "th", 'Þ': "Th", 'ı': "i",
}

// Deburr folds Latin letters with diacritics to their basic form
// ("Café" -> "Cafe") and drops combining marks.
func Deburr(s string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if repl, ok := ligatures[r]; ok {
			b.WriteString(repl)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// KebabCase normalizes s into a dash-separated lowercase token.
// Word boundaries are runs of non-alphanumeric characters, lower-to-upper
// case changes ("myApp" -> "my-app"), the end of an acronym ("HTTPServer" ->
// "http-server") and letter/digit changes ("app2go" -> "app-2-go").
// Accents are folded first.
func KebabCase(s string) string {
	var words []string
	var cur []rune

	flush := func() {
		if len(cur) > 0 {
			words = append(words, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}

	runes := []rune(Deburr(s))
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(cur) > 0 {
			prev := cur[len(cur)-1]
			switch {
			case unicode.IsLower(prev) && unicode.IsUpper(r):
				flush()
			case unicode.IsUpper(prev) && unicode.IsUpper(r) &&
				i+1 < len(runes) && unicode.IsLower(runes[i+1]):
				flush()
			case unicode.IsDigit(prev) != unicode.IsDigit(r):
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()

	return strings.Join(words, "-")
}
