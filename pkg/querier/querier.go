package querier

import (
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/gammazero/workerpool"
	"go.uber.org/zap"

	"github.com/darkclainer/vndic/pkg/parser"
)

const defaultTimeout = 10 * time.Second

type Config struct {
	// URLTemplate is the lookup URL with {} in place of the word
	URLTemplate string
	// BaseURL is prepended to site-relative audio references.
	// By default scheme and host of URLTemplate are used
	BaseURL string
	// ExtraHeader specifies what header will be added to each request
	ExtraHeader map[string]string
	// Timeout specifies maximum wait time for each request
	Timeout time.Duration
	// MaxRetries is kept for compatibility with add-on settings, requests are never retried
	MaxRetries int
	// MaxWorkers specifies how many worker parse html content of page
	// Zero value mean that it will be equal to number of logical CPU
	MaxWorkers int
}

type Remote struct {
	client *http.Client
	config *Config
	pool   *workerpool.WorkerPool
	p      Parser
	logger *zap.Logger
}

func NewRemote(client *http.Client, p Parser, config *Config, logger *zap.Logger) *Remote {
	if client == nil {
		client = &http.Client{}
	}
	if p == nil {
		p = &HTMLParser{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.URLTemplate == "" {
		config.URLTemplate = DefaultURLTemplate
	}
	if config.BaseURL == "" {
		config.BaseURL = baseFromTemplate(config.URLTemplate)
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	if config.MaxWorkers < 1 { // nolint:gomnd // if number not specified
		config.MaxWorkers = runtime.NumCPU()
	}
	return &Remote{
		client: client,
		config: config,
		pool:   workerpool.New(config.MaxWorkers),
		p:      p,
		logger: logger,
	}
}

// Lookup fetches dictionary page for word and parses it
func (q *Remote) Lookup(ctx context.Context, word string) (*parser.DictionaryEntry, error) {
	if strings.TrimSpace(word) == "" {
		return nil, ErrEmptyWord
	}
	page, err := q.FetchPage(ctx, BuildLookupURL(q.config.URLTemplate, word))
	if err != nil {
		return nil, fmt.Errorf("failed to get page for '%s': %w", word, err)
	}
	var entry *parser.DictionaryEntry
	// Use pool here, because it's heavy cpu bound task
	q.pool.SubmitWait(func() {
		entry, err = q.p.ParseEntry(strings.NewReader(page))
	})
	if err != nil {
		return nil, fmt.Errorf("can not parse page for '%s': %w", word, err)
	}
	return entry, nil
}

// FetchPage returns page content as text, invalid UTF-8 sequences are replaced with U+FFFD
func (q *Remote) FetchPage(ctx context.Context, urlPage string) (string, error) {
	body, err := q.fetch(ctx, urlPage)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(body), "�"), nil
}

// FetchAudio downloads pronunciation clip. Reference may be relative to BaseURL
func (q *Remote) FetchAudio(ctx context.Context, reference string) ([]byte, error) {
	body, err := q.fetch(ctx, resolveReference(q.config.BaseURL, reference))
	if err != nil {
		return nil, fmt.Errorf("failed to get audio: %w", err)
	}
	return body, nil
}

func (q *Remote) fetch(ctx context.Context, urlGet string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, q.config.Timeout)
	defer cancel()

	request, err := q.newRequest(ctx, urlGet)
	if err != nil {
		return nil, fmt.Errorf("can not assemble request: %w", err)
	}
	q.logger.Debug("fetching", zap.String("url", urlGet))
	response, err := q.client.Do(request)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		q.logger.Warn("unsuccessful response from dictionary",
			zap.String("url", urlGet),
			zap.Int("status", response.StatusCode),
		)
		return nil, &StatusError{Code: response.StatusCode}
	}
	body, err := ioutil.ReadAll(response.Body)
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("read response body: %w", err)}
	}
	return body, nil
}

func (q *Remote) newRequest(ctx context.Context, urlRequest string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlRequest, nil)
	if err != nil {
		return nil, fmt.Errorf("can not form request: %w", err)
	}
	for key, value := range q.config.ExtraHeader {
		req.Header.Add(key, value)
	}
	return req, nil
}

func (q *Remote) Close(ctx context.Context) error {
	q.client.CloseIdleConnections()
	q.pool.StopWait()
	return nil
}
