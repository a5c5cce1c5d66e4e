package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"comment-archiver-go/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var (
	pgOnce sync.Once
	pgInst *sql.DB
	pgErr  error
)

func postgresDB() (*sql.DB, error) {
	pgOnce.Do(func() {
		dsn := strings.TrimSpace(config.AppConfig.PostgresDSN)
		if dsn == "" {
			pgErr = errors.New("POSTGRES_DSN is empty")
			return
		}
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			pgErr = err
			return
		}
		setDBPoolDefaults(db, 8)
		db.SetConnMaxIdleTime(2 * time.Minute)

		if err := initPostgresSchema(db); err != nil {
			_ = db.Close()
			pgErr = err
			return
		}
		pgInst = db
	})
	return pgInst, pgErr
}

func initPostgresSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS videos (
			platform TEXT NOT NULL,
			video_id TEXT NOT NULL,
			url TEXT NOT NULL,
			title TEXT NOT NULL,
			archive_id TEXT NOT NULL,
			thread_count INTEGER NOT NULL,
			comment_count INTEGER NOT NULL,
			archived_at BIGINT NOT NULL,
			PRIMARY KEY (platform, video_id)
		);`,
		`CREATE TABLE IF NOT EXISTS comments (
			platform TEXT NOT NULL,
			video_id TEXT NOT NULL,
			comment_id TEXT NOT NULL,
			parent_comment_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			reply_index INTEGER NOT NULL,
			author TEXT NOT NULL,
			avatar_url TEXT NOT NULL,
			text TEXT NOT NULL,
			published TEXT NOT NULL,
			likes TEXT NOT NULL,
			reply_count TEXT NOT NULL,
			created_at BIGINT NOT NULL,
			PRIMARY KEY (platform, comment_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_comments_video ON comments(platform, video_id);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("postgres init schema: %w", err)
		}
	}
	return nil
}
