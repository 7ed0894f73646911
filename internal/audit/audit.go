// Package audit reports comments whose book no longer exists.
//
// Deleting a book does not delete its comments. The audit only reports
// them; it never removes anything.
package audit

import (
	"context"
	"fmt"

	"bookapi/internal/entity"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// BookLister returns every book.
type BookLister interface {
	List(ctx context.Context) ([]entity.Record, error)
}

// CommentLister returns every comment.
type CommentLister interface {
	All(ctx context.Context) ([]entity.Record, error)
}

type Auditor struct {
	books    BookLister
	comments CommentLister
	logger   *zap.Logger
}

func New(books BookLister, comments CommentLister, logger *zap.Logger) *Auditor {
	return &Auditor{books: books, comments: comments, logger: logger}
}

// Orphans returns the comments whose asin matches no stored book.
func (a *Auditor) Orphans(ctx context.Context) ([]entity.Record, error) {
	books, err := a.books.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	comments, err := a.comments.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	known := make(map[string]struct{}, len(books))
	for _, b := range books {
		if asin, ok := b.Key(entity.FieldASIN); ok {
			known[asin] = struct{}{}
		}
	}

	var orphans []entity.Record
	for _, c := range comments {
		asin, _ := c.Key(entity.FieldASIN)
		if _, ok := known[asin]; !ok {
			orphans = append(orphans, c)
		}
	}
	return orphans, nil
}

// Run logs the orphaned comments once.
func (a *Auditor) Run(ctx context.Context) {
	orphans, err := a.Orphans(ctx)
	if err != nil {
		a.logger.Error("orphan comment audit failed", zap.Error(err))
		return
	}
	if len(orphans) == 0 {
		a.logger.Debug("orphan comment audit clean")
		return
	}
	ids := make([]string, 0, len(orphans))
	for _, c := range orphans {
		id, _ := c.Key(entity.FieldID)
		ids = append(ids, id)
	}
	a.logger.Warn("comments reference deleted books",
		zap.Int("count", len(orphans)),
		zap.Strings("comment_ids", ids),
	)
}

// Schedule starts running the audit on spec until ctx is done. The returned
// function blocks until a running audit has finished.
func (a *Auditor) Schedule(ctx context.Context, spec string) (wait func(), err error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { a.Run(ctx) }); err != nil {
		return nil, fmt.Errorf("invalid audit schedule %q: %w", spec, err)
	}
	c.Start()
	a.logger.Info("orphan comment audit scheduled", zap.String("schedule", spec))

	return func() {
		<-ctx.Done()
		<-c.Stop().Done()
	}, nil
}
