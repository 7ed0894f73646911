package main

import (
	"context"
	"fmt"
	"math/rand"
	"path/filepath"
	"time"

	"bookapi/internal/comment"
	"bookapi/internal/config"
	"bookapi/internal/entity"
	"bookapi/internal/filestore"
	"bookapi/internal/logging"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type seedOptions struct {
	count           int
	commentsPerBook int
	dataDir         string
	booksFile       string
	commentsFile    string
	reset           bool
	randSeed        int64
}

func newRootCmd() *cobra.Command {
	store := config.Default().Store
	opts := seedOptions{
		count:        100,
		dataDir:      store.DataDir,
		booksFile:    store.BooksFile,
		commentsFile: store.CommentsFile,
		randSeed:     time.Now().UnixNano(),
	}

	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Fill the JSON data files with generated books and comments",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New("info", "console")
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return runSeed(cmd.Context(), opts, logger)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.count, "count", opts.count, "number of books to generate")
	f.IntVar(&opts.commentsPerBook, "comments-per-book", 0, "comments to generate for each new book")
	f.StringVar(&opts.dataDir, "data-dir", opts.dataDir, "directory holding the data files")
	f.StringVar(&opts.booksFile, "books-file", opts.booksFile, "books file name inside data-dir")
	f.StringVar(&opts.commentsFile, "comments-file", opts.commentsFile, "comments file name inside data-dir")
	f.BoolVar(&opts.reset, "reset", false, "replace existing data instead of appending")
	f.Int64Var(&opts.randSeed, "seed", opts.randSeed, "random seed")

	return cmd
}

var categories = []string{"Fiction", "Science Fiction", "History", "Science", "Technology", "Romance", "Mystery", "Biography", "Philosophy", "Art"}

var words = []string{
	"Adventure", "Mystery", "Journey", "Discovery", "Secrets", "Dreams", "Hope",
	"Love", "War", "Peace", "Science", "Nature", "Technology", "History", "Future",
	"Past", "Present", "Reality", "Imagination", "Wisdom", "Life", "Death",
	"Light", "Darkness", "World", "Universe", "Time", "Space", "Mind", "Soul",
}

var authors = []string{"reader", "critic", "librarian", "student", "collector"}

func runSeed(ctx context.Context, opts seedOptions, logger *zap.Logger) error {
	if opts.count < 0 || opts.commentsPerBook < 0 {
		return fmt.Errorf("count and comments-per-book must not be negative")
	}

	rnd := rand.New(rand.NewSource(opts.randSeed))
	books := filestore.NewCollection(filepath.Join(opts.dataDir, opts.booksFile))
	comments := filestore.NewCollection(filepath.Join(opts.dataDir, opts.commentsFile))
	for _, col := range []*filestore.Collection{books, comments} {
		if err := col.Ensure(); err != nil {
			return err
		}
	}

	var created []string
	err := books.Update(ctx, func(existing []entity.Record) ([]entity.Record, error) {
		if opts.reset {
			existing = existing[:0]
		}
		taken := make(map[string]bool, len(existing))
		for _, rec := range existing {
			if asin, ok := rec.Key(entity.FieldASIN); ok {
				taken[asin] = true
			}
		}

		for i := 0; len(created) < opts.count; i++ {
			asin := fmt.Sprintf("SEED%06d", i+1)
			if taken[asin] {
				continue
			}
			existing = append(existing, generateBook(rnd, asin, i))
			created = append(created, asin)
		}
		return existing, nil
	})
	if err != nil {
		return fmt.Errorf("seed books: %w", err)
	}
	logger.Info("books seeded", zap.Int("created", len(created)), zap.String("file", books.Path()))

	if opts.commentsPerBook == 0 && !opts.reset {
		return nil
	}

	now := time.Now()
	var written int
	err = comments.Update(ctx, func(existing []entity.Record) ([]entity.Record, error) {
		if opts.reset {
			existing = existing[:0]
		}
		for _, asin := range created {
			for j := 0; j < opts.commentsPerBook; j++ {
				existing = append(existing, generateComment(rnd, asin, now.Add(time.Duration(written)*time.Millisecond)))
				written++
			}
		}
		return existing, nil
	})
	if err != nil {
		return fmt.Errorf("seed comments: %w", err)
	}
	logger.Info("comments seeded", zap.Int("created", written), zap.String("file", comments.Path()))
	return nil
}

func generateBook(rnd *rand.Rand, asin string, i int) entity.Record {
	return entity.Record{
		entity.FieldASIN:     asin,
		entity.FieldTitle:    fmt.Sprintf("Book Title %d - %s", i+1, words[rnd.Intn(len(words))]),
		entity.FieldCategory: categories[rnd.Intn(len(categories))],
		entity.FieldImg:      fmt.Sprintf("/img/books/%s.jpg", asin),
		entity.FieldPrice:    float64(100+rnd.Intn(4900)) / 100,
	}
}

func generateComment(rnd *rand.Rand, asin string, at time.Time) entity.Record {
	return entity.Record{
		entity.FieldID:   uuid.NewString(),
		entity.FieldASIN: asin,
		entity.FieldDate: comment.FormatDate(at),
		"author":         authors[rnd.Intn(len(authors))],
		"text":           fmt.Sprintf("A book about %s.", words[rnd.Intn(len(words))]),
	}
}
