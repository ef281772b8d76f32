package autofill

import (
	"context"
	"fmt"
	"strings"

	"github.com/d5/tengo/script"
)

const (
	scriptDefinitions = "definitions"
	scriptWord        = "word"
	scriptResult      = "result"
)

// definitionFormatter turns definitions of a word into field content
type definitionFormatter func(ctx context.Context, word string, definitions []string) (string, error)

func separatorFormatter(separator string) definitionFormatter {
	return func(ctx context.Context, word string, definitions []string) (string, error) {
		return strings.Join(definitions, separator), nil
	}
}

// scriptFormatter compiles src once to report syntax errors early, and runs
// a fresh script for every call, so formatter is safe for concurrent use.
func scriptFormatter(src string) (definitionFormatter, error) {
	if _, err := newDefinitionScript(src, "", nil).Compile(); err != nil {
		return nil, fmt.Errorf("can not compile definition script: %w", err)
	}
	return func(ctx context.Context, word string, definitions []string) (string, error) {
		compiled, err := newDefinitionScript(src, word, definitions).RunContext(ctx)
		if err != nil {
			return "", fmt.Errorf("definition script failed: %w", err)
		}
		result := compiled.Get(scriptResult)
		if result.IsUndefined() {
			return "", fmt.Errorf("definition script did not set '%s'", scriptResult)
		}
		return result.String(), nil
	}, nil
}

func newDefinitionScript(src, word string, definitions []string) *script.Script {
	s := script.New([]byte(src))
	values := make([]interface{}, 0, len(definitions))
	for _, definition := range definitions {
		values = append(values, definition)
	}
	// Add fails only for unsupported value types
	_ = s.Add(scriptDefinitions, values)
	_ = s.Add(scriptWord, word)
	return s
}

// highlight wraps every occurrence of word in bold tags
func highlight(sentence, word string) string {
	if word == "" {
		return sentence
	}
	return strings.Replace(sentence, word, "<b>"+word+"</b>", -1)
}

func soundTag(name string) string {
	return "[sound:" + name + "]"
}
