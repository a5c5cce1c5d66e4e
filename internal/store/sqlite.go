package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"comment-archiver-go/internal/config"

	_ "modernc.org/sqlite"
)

var (
	sqliteOnce sync.Once
	sqliteInst *sql.DB
	sqliteErr  error
)

func sqlitePath() string {
	p := strings.TrimSpace(config.AppConfig.SQLitePath)
	if p == "" {
		p = filepath.Join("data", "comment_archiver.db")
	}
	return p
}

func sqliteDB() (*sql.DB, error) {
	sqliteOnce.Do(func() {
		p := sqlitePath()
		if dir := filepath.Dir(p); dir != "" && dir != "." {
			_ = os.MkdirAll(dir, 0755)
		}
		db, err := sql.Open("sqlite", p)
		if err != nil {
			sqliteErr = err
			return
		}
		// single writer
		setDBPoolDefaults(db, 1)

		stmts := []string{
			`PRAGMA busy_timeout = 5000;`,
			`PRAGMA journal_mode = WAL;`,
			`CREATE TABLE IF NOT EXISTS videos (
				platform TEXT NOT NULL,
				video_id TEXT NOT NULL,
				url TEXT NOT NULL,
				title TEXT NOT NULL,
				archive_id TEXT NOT NULL,
				thread_count INTEGER NOT NULL,
				comment_count INTEGER NOT NULL,
				archived_at INTEGER NOT NULL,
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
				created_at INTEGER NOT NULL,
				PRIMARY KEY (platform, comment_id)
			);`,
			`CREATE INDEX IF NOT EXISTS idx_comments_video ON comments(platform, video_id);`,
		}
		for _, stmt := range stmts {
			if _, err := db.Exec(stmt); err != nil {
				_ = db.Close()
				sqliteErr = err
				return
			}
		}
		sqliteInst = db
	})
	return sqliteInst, sqliteErr
}
