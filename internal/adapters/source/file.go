package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/okian/flipper/internal/adapters/dedupe"
	"github.com/okian/flipper/internal/domain/model"
	"github.com/okian/flipper/pkg/logger"
	"github.com/okian/flipper/pkg/metrics"
)

const defaultConcurrency = 4

// FileOption applies a configuration option to a File source.
type FileOption func(*File)

// WithVariations sets the machine spelling expander used by filters.
func WithVariations(v Variations) FileOption {
	return func(f *File) {
		f.variations = v
	}
}

// WithConcurrency bounds how many files Reload parses at once.
func WithConcurrency(n int) FileOption {
	return func(f *File) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

// WithLogger sets the logger for the File source.
func WithLogger(l logger.Logger) FileOption {
	return func(f *File) {
		if l != nil {
			f.logger = l
		}
	}
}

// File serves records loaded from YAML or JSON files. Each file holds one or
// more documents, each either a list of records or a mapping with a "games"
// list. Records repeated across files are kept once.
type File struct {
	paths       []string
	variations  Variations
	concurrency int
	logger      logger.Logger

	mu      sync.RWMutex
	loaded  bool
	records []model.GameRecord
}

// NewFile creates a File source reading paths on first use.
func NewFile(paths []string, opts ...FileOption) *File {
	f := &File{paths: append([]string(nil), paths...), concurrency: defaultConcurrency}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = logger.Get().Named("source")
	}
	return f
}

// FetchGames returns the records matching filter, loading the files first if
// needed.
func (f *File) FetchGames(ctx context.Context, filter Filter) ([]model.GameRecord, error) {
	if err := f.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	match := compile(filter, f.variations)

	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]model.GameRecord, 0, len(f.records))
	for _, rec := range f.records {
		if match.match(rec) {
			out = append(out, rec)
		}
	}
	metrics.RecordRecordsFetched("file", len(out))
	return out, nil
}

func (f *File) ensureLoaded(ctx context.Context) error {
	f.mu.RLock()
	loaded := f.loaded
	f.mu.RUnlock()
	if loaded {
		return nil
	}
	return f.Reload(ctx)
}

// Reload rereads every file. On error the previously loaded records stay.
func (f *File) Reload(ctx context.Context) error {
	perFile := make([][]model.GameRecord, len(f.paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	for i, path := range f.paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			recs, err := readRecords(path)
			if err != nil {
				return err
			}
			perFile[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Earlier files win when the same game appears twice.
	var all []model.GameRecord
	for _, recs := range perFile {
		all = append(all, recs...)
	}

	kept, dropped := dedupe.Records(ctx, dedupe.NewInMemoryDeduper(), all)
	if dropped > 0 {
		metrics.RecordDuplicateRecords(dropped)
	}

	f.mu.Lock()
	f.records = kept
	f.loaded = true
	f.mu.Unlock()

	f.logger.Info(ctx, "game records loaded",
		logger.Int("files", len(f.paths)),
		logger.Int("records", len(kept)),
		logger.Int("duplicates", dropped))
	return nil
}

type gamesDocument struct {
	Games []model.GameRecord `yaml:"games"`
}

func readRecords(path string) ([]model.GameRecord, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadRecords, err)
	}
	defer fh.Close()

	var out []model.GameRecord
	dec := yaml.NewDecoder(fh)
	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrParseRecords, path, err)
		}
		recs, err := decodeDocument(&node)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrParseRecords, path, err)
		}
		out = append(out, recs...)
	}
}

func decodeDocument(node *yaml.Node) ([]model.GameRecord, error) {
	root := node
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind == yaml.SequenceNode {
		var recs []model.GameRecord
		if err := root.Decode(&recs); err != nil {
			return nil, err
		}
		return recs, nil
	}
	var doc gamesDocument
	if err := root.Decode(&doc); err != nil {
		return nil, err
	}
	return doc.Games, nil
}
