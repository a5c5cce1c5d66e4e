package youtube

import (
	"comment-archiver-go/internal/comment"
	"comment-archiver-go/internal/crawler"
	"context"
	"log/slog"
	"time"
)

const defaultReplyBatchSize = 5

type threadOptions struct {
	// BatchSize caps reply fetches in flight; values outside 1..5 mean 5.
	BatchSize int
	// BatchSleep is an optional pause between reply batches.
	BatchSleep time.Duration
	Logger     *slog.Logger
}

type pendingThread struct {
	comment           comment.Comment
	replyCount        string
	replyContinuation string
}

// fetchAllThreads walks every top-level page starting at token, then fetches
// replies in batches. It never fails: errors end phase 1 early or leave a
// thread without replies, and are reported through opts.Logger.
func fetchAllThreads(ctx context.Context, client nextClient, apiURL, clientVersion, token string, opts threadOptions) []comment.Thread {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 || batchSize > defaultReplyBatchSize {
		batchSize = defaultReplyBatchSize
	}

	pending := fetchTopLevel(ctx, client, apiURL, clientVersion, token, log)

	out := make([]comment.Thread, len(pending))
	var jobs []int
	for i, p := range pending {
		out[i] = comment.Thread{Comment: p.comment, ReplyCount: p.replyCount, Replies: []comment.Comment{}}
		if p.replyContinuation != "" {
			jobs = append(jobs, i)
		}
	}
	if len(jobs) == 0 {
		return out
	}

	log.Info("fetching replies", "threads", len(jobs), "batch_size", batchSize)
	crawler.ForEachBatch(ctx, jobs, batchSize, func(ctx context.Context, _ int, idx int) {
		replies, err := fetchReplies(ctx, client, apiURL, clientVersion, pending[idx].replyContinuation)
		if err != nil {
			log.Warn("failed to fetch replies", "comment_key", pending[idx].comment.Key, "err", err)
			return
		}
		if replies != nil {
			out[idx].Replies = replies
		}
	}, func(done int) bool {
		log.Info("fetched replies", "done", done, "total", len(jobs))
		if done < len(jobs) && opts.BatchSleep > 0 {
			return crawler.Sleep(ctx, opts.BatchSleep)
		}
		return true
	})
	return out
}

func fetchTopLevel(ctx context.Context, client nextClient, apiURL, clientVersion, token string, log *slog.Logger) []pendingThread {
	var all []pendingThread
	seen := map[string]struct{}{}

	for token != "" {
		if _, dup := seen[token]; dup {
			log.Warn("continuation repeated, stopping", "threads", len(all))
			break
		}
		seen[token] = struct{}{}

		data, err := client.PostNext(ctx, apiURL, clientVersion, token)
		if err != nil {
			log.Warn("failed to fetch comments", "err", err, "threads", len(all))
			break
		}
		page := parseTopLevelPage(data)
		for _, st := range page.Threads {
			c, ok := page.Comments[st.Key]
			if !ok {
				continue
			}
			all = append(all, pendingThread{
				comment:           c,
				replyCount:        st.ReplyCount,
				replyContinuation: st.ReplyContinuation,
			})
		}
		log.Info("fetched comments", "page", len(page.Threads), "total", len(all))

		if len(page.Threads) == 0 {
			break
		}
		token = page.NextContinuation
	}
	return all
}
