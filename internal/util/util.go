package util

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Fold returns s case-folded with runs of whitespace collapsed to a single
// space. Two phrases that a player would consider the same word give the same
// folded string.
func Fold(s string) string {
	return strings.Join(strings.Fields(cases.Fold().String(s)), " ")
}

// Title gives s with the first letter of every word upper-cased, for headings
// such as room names.
func Title(s string) string {
	return cases.Title(language.English, cases.NoLower).String(s)
}

// Capitalize upper-cases only the first rune of s.
func Capitalize(s string) string {
	r := []rune(s)
	if len(r) < 1 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// NormalizeSpace collapses the whitespace inside every paragraph of s to
// single spaces. Paragraphs are separated by blank lines and stay separated by
// exactly one blank line. Leading and trailing space is removed.
func NormalizeSpace(s string) string {
	var paras []string
	var cur []string

	flush := func() {
		if len(cur) > 0 {
			paras = append(paras, strings.Join(cur, " "))
			cur = nil
		}
	}

	for _, line := range strings.Split(s, "\n") {
		words := strings.Fields(line)
		if len(words) == 0 {
			flush()
			continue
		}
		cur = append(cur, strings.Join(words, " "))
	}
	flush()

	return strings.Join(paras, "\n\n")
}

// MakeTextList gives a nice list of things based on their display name, joined
// with "and".
func MakeTextList(items []string, articles bool) string {
	return makeList(items, articles, "and")
}

// MakeTextListOr is MakeTextList joined with "or".
func MakeTextListOr(items []string, articles bool) string {
	return makeList(items, articles, "or")
}

func makeList(items []string, articles bool, conj string) string {
	if len(items) < 1 {
		return ""
	}

	withArts := make([]string, len(items))
	for i := range items {
		item := items[i]
		if articles && item != "" {
			art := ArticleFor(item, false)

			iRunes := []rune(item)
			leadingUpper := unicode.IsUpper(iRunes[0])
			allCaps := leadingUpper
			if leadingUpper && len(iRunes) > 1 {
				allCaps = unicode.IsUpper(iRunes[1])
			}

			if leadingUpper && !allCaps {
				// the article takes the capital; the item goes lower case
				iRunes[0] = unicode.ToLower(iRunes[0])
				item = string(iRunes)
				art = strings.ToLower(art)
			}

			item = art + " " + item
		}
		withArts[i] = item
	}

	switch len(withArts) {
	case 1:
		return withArts[0]
	case 2:
		return withArts[0] + " " + conj + " " + withArts[1]
	default:
		// oxford comma
		withArts[len(withArts)-1] = conj + " " + withArts[len(withArts)-1]
		return strings.Join(withArts, ", ")
	}
}

// ArticleFor returns the article for the given string. It will be capitalized
// the same as the string. If definite is true, the returned value will be "the"
// capitalized as described; otherwise, it will be "a"/"an" capitalized as
// described.
func ArticleFor(s string, definite bool) string {
	sRunes := []rune(s)

	if len(sRunes) < 1 {
		return ""
	}

	leadingUpper := unicode.IsUpper(sRunes[0])
	allCaps := leadingUpper
	if leadingUpper && len(sRunes) > 1 {
		allCaps = unicode.IsUpper(sRunes[1])
	}

	art := ""
	if definite {
		if allCaps {
			art = "THE"
		} else if leadingUpper {
			art = "The"
		} else {
			art = "the"
		}
	} else {
		if allCaps || leadingUpper {
			art = "A"
		} else {
			art = "a"
		}

		first := unicode.ToUpper(sRunes[0])
		if first == 'A' || first == 'E' || first == 'I' || first == 'O' || first == 'U' {
			if allCaps {
				art += "N"
			} else {
				art += "n"
			}
		}
	}

	return art
}

// OrderedKeys returns the keys of m, ordered a particular way. The order is
// guaranteed to be the same on every run.
//
// As of this writing, the order is alphabetical, but this function does not
// guarantee this will always be the case.
func OrderedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
