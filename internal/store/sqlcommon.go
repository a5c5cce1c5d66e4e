package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"comment-archiver-go/internal/config"
)

type backend string

const (
	backendFile     backend = "file"
	backendSQLite   backend = "sqlite"
	backendMySQL    backend = "mysql"
	backendPostgres backend = "postgres"
	backendMongoDB  backend = "mongodb"
)

func backendKind() backend {
	switch strings.ToLower(strings.TrimSpace(config.AppConfig.StoreBackend)) {
	case "sqlite":
		return backendSQLite
	case "mysql":
		return backendMySQL
	case "postgres", "postgresql":
		return backendPostgres
	case "mongodb", "mongo":
		return backendMongoDB
	default:
		return backendFile
	}
}

func dbEnabled() bool {
	return backendKind() != backendFile
}

func sqlDB(k backend) (*sql.DB, error) {
	switch k {
	case backendSQLite:
		return sqliteDB()
	case backendMySQL:
		return mysqlDB()
	case backendPostgres:
		return postgresDB()
	default:
		return nil, fmt.Errorf("%s is not a sql backend", k)
	}
}

func setDBPoolDefaults(db *sql.DB, maxOpen int) {
	if maxOpen <= 0 {
		maxOpen = 4
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)
	db.SetConnMaxLifetime(0)
}

// bind rewrites ? placeholders as $n for postgres.
func bind(k backend, q string) string {
	if k != backendPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func videoUpsertSQL(k backend) string {
	const cols = `(platform, video_id, url, title, archive_id, thread_count, comment_count, archived_at) VALUES(?, ?, ?, ?, ?, ?, ?, ?)`
	switch k {
	case backendMySQL:
		return `INSERT INTO videos` + cols + ` ON DUPLICATE KEY UPDATE url=VALUES(url), title=VALUES(title), archive_id=VALUES(archive_id), thread_count=VALUES(thread_count), comment_count=VALUES(comment_count), archived_at=VALUES(archived_at)`
	default:
		return bind(k, `INSERT INTO videos`+cols+` ON CONFLICT(platform, video_id) DO UPDATE SET url=excluded.url, title=excluded.title, archive_id=excluded.archive_id, thread_count=excluded.thread_count, comment_count=excluded.comment_count, archived_at=excluded.archived_at`)
	}
}

func commentInsertSQL(k backend) string {
	const cols = `(platform, video_id, comment_id, parent_comment_id, position, reply_index, author, avatar_url, text, published, likes, reply_count, created_at) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	switch k {
	case backendMySQL:
		return `INSERT IGNORE INTO comments` + cols
	case backendSQLite:
		return `INSERT OR IGNORE INTO comments` + cols
	default:
		return bind(k, `INSERT INTO comments`+cols+` ON CONFLICT (platform, comment_id) DO NOTHING`)
	}
}

func sqlUpsertVideo(ctx context.Context, k backend, v *Video) error {
	db, err := sqlDB(k)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, videoUpsertSQL(k),
		v.Platform, v.VideoID, v.URL, v.Title, v.ArchiveID, v.ThreadCount, v.CommentCount, v.ArchivedAt)
	return err
}

// sqlInsertComments ignores rows whose (platform, comment_id) already exists
// and returns how many were inserted.
func sqlInsertComments(ctx context.Context, k backend, rows []CommentRow) (int, error) {
	db, err := sqlDB(k)
	if err != nil {
		return 0, err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, commentInsertSQL(k))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	now := time.Now().Unix()
	inserted := 0
	for _, r := range rows {
		if strings.TrimSpace(r.CommentID) == "" {
			continue
		}
		res, err := stmt.ExecContext(ctx, r.Platform, r.VideoID, r.CommentID, r.ParentCommentID, r.Position, r.ReplyIndex,
			r.Author, r.AvatarURL, r.Text, r.Published, r.Likes, r.ReplyCount, now)
		if err != nil {
			return inserted, fmt.Errorf("insert comment %s: %w", r.CommentID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}
