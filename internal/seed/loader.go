package seed

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

// Loader fetches menu documents from local paths, http(s) URLs and
// s3://bucket/key objects. Sources ending in .gz are decompressed.
type Loader struct {
	client *http.Client
	s3     ObjectGetter
	logger *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithS3 enables s3:// sources.
func WithS3(getter ObjectGetter) LoaderOption {
	return func(l *Loader) { l.s3 = getter }
}

// sourceResult holds the outcome of loading one source
type sourceResult struct {
	index int
	doc   *Document
	err   error
}

// NewLoader creates a loader. A nil client gets a default with a timeout.
func NewLoader(client *http.Client, logger *slog.Logger, opts ...LoaderOption) *Loader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	l := &Loader{client: client, logger: logger}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadFromSources loads every source concurrently and returns the
// documents in source order. The first failing source cancels the others
// and fails the whole load.
func (l *Loader) LoadFromSources(ctx context.Context, sources []string) ([]*Document, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no menu sources provided")
	}

	loadCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	resultChan := make(chan sourceResult, len(sources))
	var wg sync.WaitGroup

	for i, src := range sources {
		wg.Add(1)
		go func(index int, source string) {
			defer wg.Done()

			doc, err := l.load(loadCtx, source)
			resultChan <- sourceResult{index: index, doc: doc, err: err}
		}(i, src)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	docs := make([]*Document, len(sources))
	var firstErr error
	for result := range resultChan {
		if result.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to load menu source %s: %w", sources[result.index], result.err)
				cancel()
			}
			continue
		}
		docs[result.index] = result.doc
	}
	if firstErr != nil {
		return nil, firstErr
	}

	for i, doc := range docs {
		l.logger.Debug("menu source loaded", "source", sources[i], "restaurants", len(doc.Restaurants))
	}
	return docs, nil
}

func (l *Loader) load(ctx context.Context, source string) (*Document, error) {
	rc, err := l.open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var r io.Reader = rc
	if strings.HasSuffix(source, ".gz") {
		gzReader, err := gzip.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzReader.Close()
		r = gzReader
	}

	return Parse(r)
}

func (l *Loader) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if isS3(source) {
		return l.openS3(ctx, source)
	}
	if !isURL(source) {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
