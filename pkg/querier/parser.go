package querier

import (
	"io"

	"github.com/darkclainer/vndic/pkg/parser"
)

type Parser interface {
	ParseEntry(page io.Reader) (*parser.DictionaryEntry, error)
}

type HTMLParser struct{}

func (p *HTMLParser) ParseEntry(page io.Reader) (*parser.DictionaryEntry, error) {
	return parser.ParseDictionaryHTML(page)
}
