package parser

// DictionaryEntry is everything extracted from one dictionary page.
type DictionaryEntry struct {
	Pinyin         string         `json:"pinyin"`
	Definitions    []string       `json:"definitions"`
	AudioReference string         `json:"audio_reference"`
	Sentences      []SentencePair `json:"sentences"`
}

// SentencePair is an example sentence with its translation.
// Translation is empty when the page breaks the pairing.
type SentencePair struct {
	Source      string `json:"source"`
	Translation string `json:"translation"`
}

func newDictionaryEntry() *DictionaryEntry {
	return &DictionaryEntry{
		Definitions: []string{},
		Sentences:   []SentencePair{},
	}
}

// IsEmpty reports whether nothing was found on the page.
func (e *DictionaryEntry) IsEmpty() bool {
	return e.Pinyin == "" &&
		len(e.Definitions) == 0 &&
		e.AudioReference == "" &&
		len(e.Sentences) == 0
}
