package autofill

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gammazero/workerpool"
	"go.uber.org/zap"

	"github.com/darkclainer/vndic/pkg/notes"
	"github.com/darkclainer/vndic/pkg/parser"
	"github.com/darkclainer/vndic/pkg/querier"
)

type Status int

const (
	StatusFilled Status = iota
	StatusNotFilled
	StatusNoWord
	StatusNoData
	StatusHTTPError
	StatusNetworkError
	StatusUnexpectedError
)

// Report describes what happened to one note
type Report struct {
	NoteID   string   `json:"note_id"`
	Word     string   `json:"word,omitempty"`
	Status   Status   `json:"status"`
	Message  string   `json:"message"`
	Filled   []string `json:"filled,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// FieldStore is the host note storage. Unknown field names must be
// reported with notes.ErrFieldNotFound
type FieldStore interface {
	GetField(id, name string) (string, error)
	SetField(id, name, value string) error
	// AppendField must read and write the field atomically
	AppendField(id, name, value string) error
}

type MediaStore interface {
	Store(data []byte, suggestedName string) (string, error)
}

type Filler struct {
	q      querier.Querier
	fields FieldStore
	media  MediaStore
	conf   *Config
	format definitionFormatter
	logger *zap.Logger
}

func New(q querier.Querier, fields FieldStore, media MediaStore, conf *Config, logger *zap.Logger) (*Filler, error) {
	conf.setDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	format := separatorFormatter(conf.DefinitionSeparator)
	if conf.DefinitionScript != "" {
		var err error
		if format, err = scriptFormatter(conf.DefinitionScript); err != nil {
			return nil, err
		}
	}
	return &Filler{
		q:      q,
		fields: fields,
		media:  media,
		conf:   conf,
		format: format,
		logger: logger,
	}, nil
}

// FillAll fills notes concurrently, reports are in order of ids
func (f *Filler) FillAll(ctx context.Context, ids []string) []*Report {
	reports := make([]*Report, len(ids))
	pool := workerpool.New(f.conf.MaxWorkers)
	for i := range ids {
		i := i
		pool.Submit(func() {
			reports[i] = f.Fill(ctx, ids[i])
		})
	}
	pool.StopWait()
	return reports
}

// Fill looks up the word of the note and writes what was found into it.
// Failing to get audio doesn't affect other fields, it's reported as warning
func (f *Filler) Fill(ctx context.Context, id string) *Report {
	report := f.fill(ctx, id)
	logger := f.logger.With(
		zap.String("note_id", id),
		zap.String("word", report.Word),
		zap.Strings("filled", report.Filled),
	)
	for _, warning := range report.Warnings {
		logger.Warn(warning)
	}
	if report.Status == StatusFilled {
		logger.Info(report.Message)
	} else {
		logger.Error(report.Message, zap.Int("status", int(report.Status)))
	}
	return report
}

func (f *Filler) fill(ctx context.Context, id string) *Report {
	report := &Report{NoteID: id}
	fieldName := f.conf.Fields.Chinese
	word, err := f.fields.GetField(id, fieldName)
	switch {
	case errors.Is(err, notes.ErrFieldNotFound):
		word = ""
	case err != nil:
		report.Status = StatusUnexpectedError
		report.Message = fmt.Sprintf("Can not read note '%s': %s", id, err)
		return report
	}
	word = strings.TrimSpace(word)
	if word == "" {
		report.Status = StatusNoWord
		report.Message = fmt.Sprintf("No Chinese text found in field '%s'", fieldName)
		return report
	}
	report.Word = word

	entry, err := f.q.Lookup(ctx, word)
	if err != nil {
		report.Status, report.Message = classifyLookupError(word, err)
		return report
	}
	if entry.IsEmpty() {
		report.Status = StatusNoData
		report.Message = fmt.Sprintf("No data found for '%s'", word)
		return report
	}

	f.fillPinyin(report, entry)
	f.fillVietnamese(ctx, report, entry)
	f.fillSentence(report, entry)
	f.fillAudio(ctx, report, entry)

	if len(report.Filled) == 0 {
		report.Status = StatusNotFilled
		report.Message = fmt.Sprintf("No field could be filled for '%s'", word)
		return report
	}
	report.Status = StatusFilled
	report.Message = fmt.Sprintf("Successfully filled fields for '%s'", word)
	return report
}

func classifyLookupError(word string, err error) (Status, string) {
	var statusErr *querier.StatusError
	var networkErr *querier.NetworkError
	switch {
	case errors.As(err, &statusErr):
		return StatusHTTPError, fmt.Sprintf("HTTP error %d while looking up '%s'", statusErr.Code, word)
	case errors.As(err, &networkErr):
		return StatusNetworkError, fmt.Sprintf("Network error while looking up '%s': %s", word, networkErr.Err)
	default:
		return StatusUnexpectedError, fmt.Sprintf("Unexpected error while looking up '%s': %s", word, err)
	}
}

func (f *Filler) fillPinyin(report *Report, entry *parser.DictionaryEntry) {
	if entry.Pinyin == "" {
		return
	}
	f.insert(report, f.conf.Fields.Pinyin, entry.Pinyin)
}

func (f *Filler) fillVietnamese(ctx context.Context, report *Report, entry *parser.DictionaryEntry) {
	if len(entry.Definitions) == 0 {
		return
	}
	value, err := f.format(ctx, report.Word, entry.Definitions)
	if err != nil {
		report.Warnings = append(report.Warnings, fmt.Sprintf("Could not format definitions for '%s': %s", report.Word, err))
		return
	}
	f.insert(report, f.conf.Fields.Vietnamese, value)
}

// fillSentence writes the first example only, without translation
func (f *Filler) fillSentence(report *Report, entry *parser.DictionaryEntry) {
	if len(entry.Sentences) == 0 {
		return
	}
	f.insert(report, f.conf.Fields.Sentence, highlight(entry.Sentences[0].Source, report.Word))
}

func (f *Filler) fillAudio(ctx context.Context, report *Report, entry *parser.DictionaryEntry) {
	if entry.AudioReference == "" || f.conf.Fields.Audio == "" {
		return
	}
	audio, err := f.q.FetchAudio(ctx, entry.AudioReference)
	if err == nil {
		var name string
		name, err = f.media.Store(audio, f.conf.AudioPrefix+report.Word+".mp3")
		if err == nil {
			f.insert(report, f.conf.Fields.Audio, soundTag(name))
			return
		}
	}
	report.Warnings = append(report.Warnings, fmt.Sprintf("Could not download audio for '%s': %s", report.Word, err))
}

func (f *Filler) insert(report *Report, field, value string) {
	if field == "" {
		return
	}
	write := f.fields.AppendField
	if f.conf.Overwrite {
		write = f.fields.SetField
	}
	if err := write(report.NoteID, field, value); err != nil {
		f.insertFailed(report, field, err)
		return
	}
	report.Filled = append(report.Filled, field)
}

func (f *Filler) insertFailed(report *Report, field string, err error) {
	if errors.Is(err, notes.ErrFieldNotFound) {
		report.Warnings = append(report.Warnings, fmt.Sprintf("Field '%s' not found", field))
		return
	}
	report.Warnings = append(report.Warnings, fmt.Sprintf("Can not write field '%s': %s", field, err))
}
