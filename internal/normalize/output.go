package normalize

import (
	"regexp"
	"strings"
)

// a sign code such as "B-20" or "Т-1а", not preceded by a letter or digit
var signCodePattern = regexp.MustCompile(`(^|[^\p{L}\p{N}_])[А-ЯA-Z]-\d+[A-Za-zА-Яа-я]?`)

var latinLookalikes = strings.NewReplacer(
	"А", "A", "В", "B", "С", "C", "Е", "E", "Н", "H", "Р", "P", "Т", "T",
	"а", "a", "в", "b", "с", "c", "е", "e", "н", "h", "р", "p", "т", "t",
)

// LatinSignCodes replaces Cyrillic letters that look like Latin ones inside
// road-sign codes, so "В-20" becomes "B-20". Text outside codes is untouched.
func LatinSignCodes(text string) string {
	return signCodePattern.ReplaceAllStringFunc(text, latinLookalikes.Replace)
}

// TrimQuotes unescapes \" sequences, trims the text and removes one pair of
// straight double quotes wrapping it
func TrimQuotes(text string) string {
	text = strings.TrimSpace(strings.ReplaceAll(text, `\"`, `"`))
	if strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) {
		if len(text) == 1 {
			return ""
		}
		return text[1 : len(text)-1]
	}
	return text
}

// CleanTranslation post-processes text returned by a translation API
func CleanTranslation(text string) string {
	return TrimQuotes(LatinSignCodes(text))
}
