package main

import (
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repoMigrationsDir(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok, "runtime.Caller failed")
	return filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", "..", "db", "migrations"))
}

// upSection returns the statements between the goose Up and Down markers.
func upSection(t *testing.T, sql string) string {
	t.Helper()
	_, rest, ok := strings.Cut(sql, "-- +goose Up")
	require.True(t, ok, "missing '-- +goose Up'")
	up, _, ok := strings.Cut(rest, "-- +goose Down")
	require.True(t, ok, "missing '-- +goose Down'")
	return up
}

func createTable(t *testing.T, up, table string) string {
	t.Helper()
	re := regexp.MustCompile(`(?is)CREATE TABLE IF NOT EXISTS ` + table + ` \((.*?)\n\);`)
	m := re.FindStringSubmatch(up)
	require.NotNil(t, m, "no CREATE TABLE for %s", table)
	return m[1]
}

func TestMigrations_CollectAndSchema(t *testing.T) {
	dir := repoMigrationsDir(t)

	migrations, err := goose.CollectMigrations(dir, 0, goose.MaxVersion)
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	b, err := os.ReadFile(filepath.Join(dir, "00001_create_books_comments.sql"))
	require.NoError(t, err)
	up := upSection(t, string(b))

	books := createTable(t, up, "books")
	assert.Regexp(t, `(?i)asin\s+TEXT\s+NOT NULL\s+UNIQUE`, books, "books.asin must be unique")
	assert.Regexp(t, `(?i)seq\s+BIGSERIAL`, books, "books keep insertion order by seq")

	comments := createTable(t, up, "comments")
	assert.Regexp(t, `(?i)id\s+TEXT\s+NOT NULL\s+UNIQUE`, comments)
	assert.Regexp(t, `(?i)asin\s+TEXT\s+NOT NULL`, comments)
	// Comments survive the deletion of their book.
	assert.NotRegexp(t, `(?i)REFERENCES|FOREIGN KEY`, comments)
}

func TestMigrations_DownDropsEverything(t *testing.T) {
	b, err := os.ReadFile(filepath.Join(repoMigrationsDir(t), "00001_create_books_comments.sql"))
	require.NoError(t, err)

	_, down, ok := strings.Cut(string(b), "-- +goose Down")
	require.True(t, ok)
	for _, table := range []string{"books", "comments"} {
		assert.Contains(t, down, "DROP TABLE IF EXISTS "+table)
	}
}
