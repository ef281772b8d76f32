package querier

import (
	"encoding/json"
	"io"

	"github.com/darkclainer/vndic/pkg/parser"
)

// JSONParser parses entry from JSON format. Use it for testing
type JSONParser struct{}

func (p *JSONParser) ParseEntry(page io.Reader) (*parser.DictionaryEntry, error) {
	var entry parser.DictionaryEntry
	if err := json.NewDecoder(page).Decode(&entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
