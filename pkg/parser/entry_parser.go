package parser

import (
	"io"
	"strings"
)

var (
	pinyinPredicate      = AttrEquals("color", PinyinColor)
	definitionPredicate  = AttrContains("src", DefinitionMarker)
	sentencePredicate    = AttrContains("src", SentenceMarker)
	sourcePredicate      = AttrEqualsFold("color", SourceSentenceColor)
	translationPredicate = AttrEqualsFold("color", TranslationColor)
	playSoundPredicate   = AttrContains("onclick", PlaySoundMarker)
)

// ParseDictionaryHTML reads a dictionary page and extracts its entry.
// Unexpected page layout never causes an error, fields that could not be
// found are left empty. Error is returned only if page can not be read.
func ParseDictionaryHTML(page io.Reader) (*DictionaryEntry, error) {
	doc, err := ParseDocument(page)
	if err != nil {
		return nil, err
	}
	return parseDocument(doc), nil
}

// ParseDictionaryPage is ParseDictionaryHTML for already decoded text.
func ParseDictionaryPage(page string) *DictionaryEntry {
	entry, err := ParseDictionaryHTML(strings.NewReader(page))
	if err != nil {
		return newDictionaryEntry()
	}
	return entry
}

func parseDocument(doc *Node) *DictionaryEntry {
	entry := newDictionaryEntry()
	entry.Pinyin = getPinyin(doc)
	entry.Definitions = getDefinitions(doc)
	entry.AudioReference = getAudioReference(doc)
	entry.Sentences = getSentences(doc)
	return entry
}

// getPinyin extracts text of the first pinyin colored font, e.g. "[gōngjīn]"
func getPinyin(doc *Node) string {
	pinyin := doc.FindFirst(fontMatcher, pinyinPredicate).Text()
	if len(pinyin) >= 2 && strings.HasPrefix(pinyin, "[") && strings.HasSuffix(pinyin, "]") {
		pinyin = pinyin[1 : len(pinyin)-1]
	}
	return pinyin
}

// getDefinitions takes text of the cell that follows each definition marker
func getDefinitions(doc *Node) []string {
	markers := doc.FindAll(imgMatcher, definitionPredicate)
	definitions := make([]string, 0, len(markers))
	for _, marker := range markers {
		definition := marker.Enclosing(cellMatcher).NextSibling(cellMatcher).Text()
		if definition == "" {
			continue
		}
		definitions = append(definitions, definition)
	}
	return definitions
}

// getAudioReference extracts first quoted argument of the play call:
// soundManager.play('/mp3.php?id=...') gives /mp3.php?id=...
func getAudioReference(doc *Node) string {
	onclick := doc.FindFirst(spanMatcher, playSoundPredicate).Attr("onclick")
	call := strings.Index(onclick, PlaySoundMarker)
	if call < 0 {
		return ""
	}
	args := onclick[call+len(PlaySoundMarker):]
	start := strings.IndexByte(args, '\'')
	if start < 0 {
		return ""
	}
	args = args[start+1:]
	end := strings.IndexByte(args, '\'')
	if end < 0 {
		return ""
	}
	return args[:end]
}

/*
	sample sentences are laid out as two rows:
	<tr><td><img src=".../72B02D27.png"></td><td><font color=#FF0000>source</font></td></tr>
	<tr><td></td><td><font color=#7F7F7F>translation</font></td></tr>
*/
func getSentences(doc *Node) []SentencePair {
	markers := doc.FindAll(imgMatcher, sentencePredicate)
	sentences := make([]SentencePair, 0, len(markers))
	for _, marker := range markers {
		source := marker.
			Enclosing(cellMatcher).
			NextSibling(cellMatcher).
			FindFirst(fontMatcher, sourcePredicate)
		if source == nil {
			continue
		}
		translation := marker.
			Enclosing(rowMatcher).
			NextSibling(rowMatcher).
			FindFirst(fontMatcher, translationPredicate)
		sentences = append(sentences, SentencePair{
			Source:      source.Text(),
			Translation: translation.Text(),
		})
	}
	return sentences
}
