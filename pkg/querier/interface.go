package querier

import (
	"context"

	"github.com/darkclainer/vndic/pkg/parser"
)

//go:generate go run github.com/vektra/mockery/cmd/mockery -name Querier -output ../mocks/

type Querier interface {
	Lookup(ctx context.Context, word string) (*parser.DictionaryEntry, error)
	FetchAudio(ctx context.Context, reference string) ([]byte, error)
	Close(ctx context.Context) error
}
