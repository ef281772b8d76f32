// Package vndic looks Chinese words up in the vndic.net Chinese-Vietnamese
// dictionary and extracts pinyin, translations, example sentences and
// pronunciation audio from its pages.
package vndic

import (
	"github.com/darkclainer/vndic/pkg/parser"
	"github.com/darkclainer/vndic/pkg/querier"
)

type (
	DictionaryEntry = parser.DictionaryEntry
	SentencePair    = parser.SentencePair
)

// BuildLookupURL substitutes percent-encoded word into the {} placeholder of template.
func BuildLookupURL(template, word string) string {
	return querier.BuildLookupURL(template, word)
}

// ParseDictionaryPage extracts dictionary entry from page. It never fails,
// missing parts of the entry are left empty.
func ParseDictionaryPage(page string) *DictionaryEntry {
	return parser.ParseDictionaryPage(page)
}
