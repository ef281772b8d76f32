package notes

import "errors"

var (
	ErrNoteNotFound  = errors.New("note not found")
	ErrFieldNotFound = errors.New("field not found")
	ErrMediaNotFound = errors.New("media not found")
	ErrEmptyID       = errors.New("empty note id")
)

// Note is a flashcard: Fields[i] holds the value of field named Model[i].
type Note struct {
	ID     string   `json:"id"`
	Model  []string `json:"model"`
	Fields []string `json:"fields"`
}

// NewNote creates a note with the given schema, all fields empty.
func NewNote(id string, model ...string) *Note {
	return &Note{
		ID:     id,
		Model:  model,
		Fields: make([]string, len(model)),
	}
}

func (n *Note) fieldIndex(name string) (int, bool) {
	for i, fieldName := range n.Model {
		if fieldName == name {
			return i, true
		}
	}
	return 0, false
}

// Field returns value of the field or ErrFieldNotFound.
func (n *Note) Field(name string) (string, error) {
	i, ok := n.fieldIndex(name)
	if !ok {
		return "", ErrFieldNotFound
	}
	return n.Fields[i], nil
}

// SetField overwrites value of the field or returns ErrFieldNotFound.
func (n *Note) SetField(name, value string) error {
	i, ok := n.fieldIndex(name)
	if !ok {
		return ErrFieldNotFound
	}
	n.Fields[i] = value
	return nil
}

// normalize aligns Fields with Model after decoding
func (n *Note) normalize() {
	switch {
	case len(n.Fields) < len(n.Model):
		n.Fields = append(n.Fields, make([]string, len(n.Model)-len(n.Fields))...)
	case len(n.Fields) > len(n.Model):
		n.Fields = n.Fields[:len(n.Model)]
	}
}
