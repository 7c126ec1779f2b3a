// Package store persists scraped books, either as one file per book under a
// data directory or as documents in a MongoDB collection.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"bookscraper/src/internal/config"
	"bookscraper/src/internal/schema"
)

// Sink receives validated books. Save returns where the book went: a file path
// or a document id.
type Sink interface {
	Save(ctx context.Context, b schema.Book) (string, error)
	Close(ctx context.Context) error
}

// Open returns a MongoSink when a Mongo URI is configured and a FileSink otherwise.
func Open(ctx context.Context, cfg config.Config) (Sink, error) {
	if strings.TrimSpace(cfg.Mongo.URI) != "" {
		return OpenMongo(ctx, cfg.Mongo)
	}
	return &FileSink{Dir: cfg.DataDir, Format: cfg.Output}, nil
}

// Encode renders b as indented JSON or as YAML.
func Encode(b schema.Book, format string) ([]byte, error) {
	switch format {
	case "", "json":
		out, err := json.MarshalIndent(b, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	case "yaml":
		return yaml.Marshal(b)
	default:
		return nil, fmt.Errorf("store: unknown format %q", format)
	}
}

// key is the storage id of b.
func key(b schema.Book) string {
	if id := b.ID(); id != "" {
		return id
	}
	return "untitled"
}

// FileSink writes <Dir>/<id>.json or <Dir>/<id>.yaml. Saving the same book
// twice overwrites the earlier file.
type FileSink struct {
	Dir    string
	Format string
}

func (s *FileSink) ext() string {
	if s.Format == "yaml" {
		return ".yaml"
	}
	return ".json"
}

func (s *FileSink) Save(_ context.Context, b schema.Book) (string, error) {
	if err := b.Validate(); err != nil {
		return "", fmt.Errorf("store: %w", err)
	}
	buf, err := Encode(b, s.Format)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(s.Dir, key(b)+s.ext())
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (s *FileSink) Close(context.Context) error { return nil }

// ReadAll loads and validates every .json and .yaml book under dir. A missing
// dir yields no books.
func ReadAll(dir string) ([]schema.Book, error) {
	var books []schema.Book
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return books, nil
	}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		var decode func([]byte, any) error
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			decode = json.Unmarshal
		case ".yaml", ".yml":
			decode = yaml.Unmarshal
		default:
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var b schema.Book
		if err := decode(data, &b); err != nil {
			return fmt.Errorf("store: invalid book in %s: %w", path, err)
		}
		if err := b.Validate(); err != nil {
			return fmt.Errorf("store: invalid book in %s: %w", path, err)
		}
		books = append(books, b)
		return nil
	})
	return books, err
}
