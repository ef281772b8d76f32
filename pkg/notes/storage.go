package notes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v2"
)

type Config struct {
	// Path is the badger directory, ignored when InMemory is set
	Path     string
	InMemory bool
}

// Storage keeps notes and media files in one badger database
type Storage struct {
	DB *badger.DB
}

func Open(conf *Config) (*Storage, error) {
	options := badger.DefaultOptions(conf.Path).WithLogger(nil)
	if conf.InMemory {
		options = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}
	db, err := badger.Open(options)
	if err != nil {
		return nil, fmt.Errorf("can not open badger: %w", err)
	}
	return &Storage{DB: db}, nil
}

func (s *Storage) Close() error {
	return s.DB.Close()
}

func (s *Storage) PutNote(note *Note) error {
	if note.ID == "" {
		return ErrEmptyID
	}
	note.normalize()
	return s.DB.Update(func(txn *badger.Txn) error {
		return putNote(txn, note)
	})
}

func (s *Storage) GetNote(id string) (*Note, error) {
	var note *Note
	err := s.DB.View(func(txn *badger.Txn) error {
		var err error
		note, err = getNote(txn, id)
		return err
	})
	return note, err
}

// NoteIDs returns ids of all stored notes in key order
func (s *Storage) NoteIDs() ([]string, error) {
	var ids []string
	err := s.DB.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()
		prefix := []byte{byte(noteKey)}
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			id, err := unmarshalKey(it.Item().Key(), noteKey)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	return ids, err
}

// GetField returns value of the named field of the note
func (s *Storage) GetField(id, name string) (string, error) {
	note, err := s.GetNote(id)
	if err != nil {
		return "", err
	}
	value, err := note.Field(name)
	if err != nil {
		return "", fmt.Errorf("note '%s' has no field '%s': %w", id, name, err)
	}
	return value, nil
}

// SetField overwrites value of the named field of the note
func (s *Storage) SetField(id, name, value string) error {
	return s.updateField(id, name, func(string) string {
		return value
	})
}

// AppendField adds value to the end of the named field. Read and write
// happen in one transaction, so concurrent appends are never lost.
func (s *Storage) AppendField(id, name, value string) error {
	return s.updateField(id, name, func(existing string) string {
		return existing + value
	})
}

// updateField replaces field with update(field). A transaction that
// conflicts with a concurrent write is retried from the beginning.
func (s *Storage) updateField(id, name string, update func(string) string) error {
	for {
		err := s.DB.Update(func(txn *badger.Txn) error {
			note, err := getNote(txn, id)
			if err != nil {
				return err
			}
			existing, err := note.Field(name)
			if err != nil {
				return fmt.Errorf("note '%s' has no field '%s': %w", id, name, err)
			}
			_ = note.SetField(name, update(existing))
			return putNote(txn, note)
		})
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
}

func getNote(txn *badger.Txn, id string) (*Note, error) {
	item, err := txn.Get(marshalKey(id, noteKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can not get note '%s': %w", id, err)
	}
	var note Note
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &note)
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal note '%s': %w", id, err)
	}
	note.normalize()
	return &note, nil
}

func putNote(txn *badger.Txn, note *Note) error {
	value, err := json.Marshal(note)
	if err != nil {
		return fmt.Errorf("failed to marshal note: %w", err)
	}
	return txn.Set(marshalKey(note.ID, noteKey), value)
}

// Store saves media under suggestedName. When another content already has
// that name, a numeric suffix is added before the extension. Storing the
// same content twice returns the same name.
func (s *Storage) Store(data []byte, suggestedName string) (string, error) {
	name := SanitizeName(suggestedName)
	if name == "" {
		return "", fmt.Errorf("invalid media name: '%s'", suggestedName)
	}
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	var stored string
	err := s.DB.Update(func(txn *badger.Txn) error {
		for i := 0; ; i++ {
			candidate := name
			if i > 0 {
				candidate = stem + "-" + strconv.Itoa(i) + ext
			}
			key := marshalKey(candidate, mediaKey)
			item, err := txn.Get(key)
			if errors.Is(err, badger.ErrKeyNotFound) {
				stored = candidate
				return txn.Set(key, data)
			}
			if err != nil {
				return err
			}
			existing, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if bytes.Equal(existing, data) {
				stored = candidate
				return nil
			}
		}
	})
	if err != nil {
		return "", fmt.Errorf("can not store media '%s': %w", name, err)
	}
	return stored, nil
}

// Media returns content stored under name
func (s *Storage) Media(name string) ([]byte, error) {
	var data []byte
	err := s.DB.View(func(txn *badger.Txn) error {
		item, err := txn.Get(marshalKey(name, mediaKey))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrMediaNotFound
	}
	return data, err
}

// SanitizeName drops path separators and characters that are not allowed
// in file names on common filesystems.
func SanitizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		if r < ' ' || strings.ContainsRune(`/\:*?"<>|`, r) {
			return -1
		}
		return r
	}, name)
	return strings.Trim(strings.TrimSpace(name), ".")
}
