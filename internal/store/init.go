package store

import (
	"context"
	"time"
)

// Init opens the configured database backend early so misconfiguration shows
// up before any crawling starts. File storage needs no setup.
func Init(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	switch k := backendKind(); k {
	case backendSQLite, backendMySQL, backendPostgres:
		db, err := sqlDB(k)
		if err != nil {
			return err
		}
		return db.PingContext(ctx)
	case backendMongoDB:
		_, err := mongoClient()
		return err
	default:
		return nil
	}
}
