package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"comment-archiver-go/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	mongoOnce sync.Once
	mongoCli  *mongo.Client
	mongoErr  error
)

func mongoDBName() string {
	if v := strings.TrimSpace(config.AppConfig.MongoDB); v != "" {
		return v
	}
	return "comment_archiver"
}

func mongoClient() (*mongo.Client, error) {
	mongoOnce.Do(func() {
		uri := strings.TrimSpace(config.AppConfig.MongoURI)
		if uri == "" {
			mongoErr = errors.New("MONGO_URI is empty")
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cli, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err != nil {
			mongoErr = err
			return
		}
		if err := cli.Ping(ctx, readpref.Primary()); err != nil {
			_ = cli.Disconnect(ctx)
			mongoErr = err
			return
		}
		if err := initMongoSchema(ctx, cli); err != nil {
			_ = cli.Disconnect(ctx)
			mongoErr = err
			return
		}
		mongoCli = cli
	})
	return mongoCli, mongoErr
}

func initMongoSchema(ctx context.Context, cli *mongo.Client) error {
	db := cli.Database(mongoDBName())

	_, err := db.Collection("videos").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "platform", Value: 1}, {Key: "video_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_platform_video"),
	})
	if err != nil {
		return fmt.Errorf("mongo create indexes videos: %w", err)
	}

	_, err = db.Collection("comments").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "platform", Value: 1}, {Key: "comment_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_platform_comment"),
		},
		{
			Keys:    bson.D{{Key: "platform", Value: 1}, {Key: "video_id", Value: 1}, {Key: "position", Value: 1}, {Key: "reply_index", Value: 1}},
			Options: options.Index().SetName("idx_video_order"),
		},
	})
	if err != nil {
		return fmt.Errorf("mongo create indexes comments: %w", err)
	}
	return nil
}

func mongoUpsertVideo(ctx context.Context, v *Video) error {
	cli, err := mongoClient()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.D{{Key: "platform", Value: v.Platform}, {Key: "video_id", Value: v.VideoID}}
	update := bson.D{{Key: "$set", Value: bson.M{
		"platform":      v.Platform,
		"video_id":      v.VideoID,
		"url":           v.URL,
		"title":         v.Title,
		"archive_id":    v.ArchiveID,
		"thread_count":  v.ThreadCount,
		"comment_count": v.CommentCount,
		"archived_at":   v.ArchivedAt,
		"archived_iso":  time.Unix(v.ArchivedAt, 0).UTC().Format(time.RFC3339),
	}}}
	_, err = cli.Database(mongoDBName()).Collection("videos").
		UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func mongoInsertComments(ctx context.Context, rows []CommentRow) (int, error) {
	cli, err := mongoClient()
	if err != nil {
		return 0, err
	}
	now := time.Now().Unix()
	models := make([]mongo.WriteModel, 0, len(rows))
	for _, r := range rows {
		if strings.TrimSpace(r.CommentID) == "" {
			continue
		}
		filter := bson.D{{Key: "platform", Value: r.Platform}, {Key: "comment_id", Value: r.CommentID}}
		update := bson.D{{Key: "$setOnInsert", Value: bson.M{
			"platform":          r.Platform,
			"video_id":          r.VideoID,
			"comment_id":        r.CommentID,
			"parent_comment_id": r.ParentCommentID,
			"position":          r.Position,
			"reply_index":       r.ReplyIndex,
			"author":            r.Author,
			"avatar_url":        r.AvatarURL,
			"text":              r.Text,
			"published":         r.Published,
			"likes":             r.Likes,
			"reply_count":       r.ReplyCount,
			"created_at":        now,
		}}}
		models = append(models, mongo.NewUpdateOneModel().SetFilter(filter).SetUpdate(update).SetUpsert(true))
	}
	if len(models) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	res, err := cli.Database(mongoDBName()).Collection("comments").
		BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, err
	}
	return int(res.UpsertedCount), nil
}
