package autofill

import "runtime"

const (
	defaultSeparator   = "<br>"
	defaultAudioPrefix = "autodefine_cn_vn_"
)

// FieldMapping names the note fields the filler reads and writes.
// Empty name disables the field.
type FieldMapping struct {
	Chinese    string
	Pinyin     string
	Vietnamese string
	Audio      string
	Sentence   string
}

func DefaultFieldMapping() FieldMapping {
	return FieldMapping{
		Chinese:    "Chinese",
		Pinyin:     "Pinyin",
		Vietnamese: "Vietnamese",
		Audio:      "Audio",
		Sentence:   "Sentence",
	}
}

type Config struct {
	Fields FieldMapping
	// Overwrite replaces field content, otherwise new value is appended
	Overwrite bool
	// DefinitionSeparator joins definitions into Vietnamese field
	DefinitionSeparator string
	// DefinitionScript is tengo source that replaces joining by separator.
	// It gets `definitions` (array of strings) and `word`, and must set `result`
	DefinitionScript string
	// AudioPrefix is prepended to the word to name stored audio
	AudioPrefix string
	// MaxWorkers bounds notes filled at once by FillAll
	MaxWorkers int
}

func (c *Config) setDefaults() {
	if c.Fields == (FieldMapping{}) {
		c.Fields = DefaultFieldMapping()
	}
	if c.DefinitionSeparator == "" {
		c.DefinitionSeparator = defaultSeparator
	}
	if c.AudioPrefix == "" {
		c.AudioPrefix = defaultAudioPrefix
	}
	if c.MaxWorkers < 1 { // nolint:gomnd // if number not specified
		c.MaxWorkers = runtime.NumCPU()
	}
}
