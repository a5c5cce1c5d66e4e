package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"comment-archiver-go/internal/config"

	_ "github.com/go-sql-driver/mysql"
)

var (
	mysqlOnce sync.Once
	mysqlInst *sql.DB
	mysqlErr  error
)

func mysqlDB() (*sql.DB, error) {
	mysqlOnce.Do(func() {
		dsn := strings.TrimSpace(config.AppConfig.MySQLDSN)
		if dsn == "" {
			mysqlErr = errors.New("MYSQL_DSN is empty")
			return
		}
		db, err := sql.Open("mysql", dsn)
		if err != nil {
			mysqlErr = err
			return
		}
		setDBPoolDefaults(db, 8)
		db.SetConnMaxIdleTime(2 * time.Minute)

		if err := initMySQLSchema(db); err != nil {
			_ = db.Close()
			mysqlErr = err
			return
		}
		mysqlInst = db
	})
	return mysqlInst, mysqlErr
}

func initMySQLSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS videos (
			platform VARCHAR(32) NOT NULL,
			video_id VARCHAR(191) NOT NULL,
			url TEXT NOT NULL,
			title TEXT NOT NULL,
			archive_id VARCHAR(64) NOT NULL,
			thread_count INT NOT NULL,
			comment_count INT NOT NULL,
			archived_at BIGINT NOT NULL,
			PRIMARY KEY (platform, video_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`,
		`CREATE TABLE IF NOT EXISTS comments (
			platform VARCHAR(32) NOT NULL,
			video_id VARCHAR(191) NOT NULL,
			comment_id VARCHAR(191) NOT NULL,
			parent_comment_id VARCHAR(191) NOT NULL,
			position INT NOT NULL,
			reply_index INT NOT NULL,
			author TEXT NOT NULL,
			avatar_url TEXT NOT NULL,
			text LONGTEXT NOT NULL,
			published VARCHAR(64) NOT NULL,
			likes VARCHAR(32) NOT NULL,
			reply_count VARCHAR(32) NOT NULL,
			created_at BIGINT NOT NULL,
			PRIMARY KEY (platform, comment_id),
			KEY idx_comments_video (platform, video_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("mysql init schema: %w", err)
		}
	}
	return nil
}
