package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"bookapi/internal/audit"
	"bookapi/internal/book"
	"bookapi/internal/comment"
	"bookapi/internal/config"
	"bookapi/internal/filestore"
	"bookapi/internal/httpx"
	"bookapi/internal/upload"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type stores struct {
	books    book.Repository
	comments comment.Repository
	ready    func(ctx context.Context) error
	close    func()
}

func openStores(ctx context.Context, cfg config.Config, logger *zap.Logger) (*stores, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := openDB(ctx, cfg.Store.DSN)
		if err != nil {
			return nil, err
		}
		logger.Info("database connection OK", zap.String("dsn", redactDSN(cfg.Store.DSN)))
		return &stores{
			books:    book.NewPostgresRepo(pool, cfg.Store.Timeout),
			comments: comment.NewPostgresRepo(pool, cfg.Store.Timeout),
			ready:    pool.Ping,
			close:    pool.Close,
		}, nil
	default:
		booksCol := filestore.NewCollection(cfg.Store.BooksPath())
		commentsCol := filestore.NewCollection(cfg.Store.CommentsPath())
		for _, col := range []*filestore.Collection{booksCol, commentsCol} {
			if err := col.Ensure(); err != nil {
				return nil, err
			}
		}
		logger.Info("using file store",
			zap.String("books", booksCol.Path()),
			zap.String("comments", commentsCol.Path()),
		)
		return &stores{
			books:    book.NewFileRepo(booksCol),
			comments: comment.NewFileRepo(commentsCol),
			ready: func(ctx context.Context) error {
				if _, err := booksCol.Load(ctx); err != nil {
					return err
				}
				_, err := commentsCol.Load(ctx)
				return err
			},
			close: func() {},
		}, nil
	}
}

func newRouter(cfg config.Config, st *stores, logger *zap.Logger) (http.Handler, func(), error) {
	imgStore := upload.NewStore(cfg.Store.ImgDir)
	if err := imgStore.Ensure(); err != nil {
		return nil, nil, fmt.Errorf("create image dir: %w", err)
	}

	bookService := book.NewService(st.books)
	commentService := comment.NewService(st.comments, bookService)

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := st.ready(ctx); err != nil {
			httpx.LoggerFrom(r).Warn("store not ready", zap.Error(err))
			http.Error(w, "store not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	upload.NewHTTPHandler(imgStore, cfg.HTTP.MaxUploadBytes).Register(router, cfg.BooksPrefix)
	book.NewHTTPHandler(bookService).Register(router, cfg.BooksPrefix)
	comment.NewHTTPHandler(commentService).Register(router, cfg.BooksPrefix)

	middlewares := []func(http.Handler) http.Handler{
		httpx.RequestIDMiddleware(logger),
		httpx.AccessLogMiddleware,
		httpx.RecoveryMiddleware,
		httpx.SecurityHeadersMiddleware,
		httpx.CORSMiddleware(cfg.HTTP.CORSOrigins),
		httpx.RequestSizeLimitMiddleware(cfg.HTTP.MaxBodyBytes, map[string]int64{
			upload.Route(cfg.BooksPrefix): cfg.HTTP.MaxUploadBytes,
		}),
	}
	cleanup := func() {}
	if cfg.HTTP.RateLimitRPS > 0 {
		rl := httpx.NewRateLimitMiddleware(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
		middlewares = append(middlewares, rl.Middleware)
		cleanup = rl.Close
	}

	return httpx.Chain(router, middlewares...), cleanup, nil
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	handler, cleanup, err := newRouter(cfg, st, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.AuditSchedule != "" {
		auditor := audit.New(st.books, st.comments, logger.Named("audit"))
		wait, err := auditor.Schedule(gctx, cfg.AuditSchedule)
		if err != nil {
			return err
		}
		g.Go(func() error {
			wait()
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("starting server", zap.String("addr", cfg.Addr), zap.String("prefix", cfg.BooksPrefix))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openDB(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("cannot ping database (%s): %w", redactDSN(dsn), err)
	}
	return pool, nil
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
