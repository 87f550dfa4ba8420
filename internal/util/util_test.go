package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_MakeTextList(t *testing.T) {
	testCases := []struct {
		name     string
		items    []string
		articles bool
		expect   string
	}{
		{
			name:   "empty",
			items:  nil,
			expect: "",
		},
		{
			name:   "one item no articles",
			items:  []string{"lamp"},
			expect: "lamp",
		},
		{
			name:     "one item with article",
			items:    []string{"lamp"},
			articles: true,
			expect:   "a lamp",
		},
		{
			name:     "two items with articles",
			items:    []string{"lamp", "orange"},
			articles: true,
			expect:   "a lamp and an orange",
		},
		{
			name:     "three items uses oxford comma",
			items:    []string{"lamp", "cube", "gown"},
			articles: true,
			expect:   "a lamp, a cube, and a gown",
		},
		{
			name:     "capitalized item is lowered after article",
			items:    []string{"Lamp"},
			articles: true,
			expect:   "a lamp",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := MakeTextList(tc.items, tc.articles)

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_MakeTextListOr(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("the hair brush or the tooth brush", MakeTextListOr([]string{"the hair brush", "the tooth brush"}, false))
}

func Test_ArticleFor(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		definite bool
		expect   string
	}{
		{name: "indefinite consonant", input: "lamp", expect: "a"},
		{name: "indefinite vowel", input: "orange", expect: "an"},
		{name: "indefinite capital vowel", input: "Orange", expect: "An"},
		{name: "indefinite all caps vowel", input: "ORANGE", expect: "AN"},
		{name: "definite", input: "lamp", definite: true, expect: "the"},
		{name: "definite capital", input: "Lamp", definite: true, expect: "The"},
		{name: "empty", input: "", expect: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expect, ArticleFor(tc.input, tc.definite))
		})
	}
}

func Test_NormalizeSpace(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "already normal",
			input:  "The bedroom is a mess.",
			expect: "The bedroom is a mess.",
		},
		{
			name: "indented multiline",
			input: `
				The bedroom is a mess. It is a small bedroom
				with a faded carpet.
				`,
			expect: "The bedroom is a mess. It is a small bedroom with a faded carpet.",
		},
		{
			name:   "paragraphs kept",
			input:  "one\n  two\n\n\n   three",
			expect: "one two\n\nthree",
		},
		{
			name:   "only space",
			input:  "  \n\t ",
			expect: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expect, NormalizeSpace(tc.input))
		})
	}
}

func Test_Fold(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("tatty dressing gown", Fold("  Tatty   DRESSING\tgown "))
	assert.Equal(Fold("LAMP"), Fold("lamp"))
}
