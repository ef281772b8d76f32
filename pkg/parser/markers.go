package parser

// vndic.net carries no semantic markup: fields are recognized only by font
// colors, marker images and the sound player call. Every signature the
// extractor relies on lives here.
const (
	// PinyinColor is matched exactly against font[color].
	PinyinColor = "#7F0000"
	// SourceSentenceColor and TranslationColor are matched case-insensitively.
	SourceSentenceColor = "#FF0000"
	TranslationColor    = "#7F7F7F"

	// DefinitionMarker and SentenceMarker are substrings of img[src],
	// so any query string appended by the site is ignored.
	DefinitionMarker = "img/dict/CB1FF077.png"
	SentenceMarker   = "img/dict/72B02D27.png"

	// PlaySoundMarker is a substring of span[onclick].
	PlaySoundMarker = "soundManager.play"
)
