package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tidwall/gjson"
)

func threadItem(key, replyToken string) map[string]any {
	ctr := map[string]any{
		"commentViewModel": map[string]any{
			"commentViewModel": map[string]any{"commentKey": key},
		},
	}
	if replyToken != "" {
		ctr["replies"] = map[string]any{
			"commentRepliesRenderer": map[string]any{
				"contents": []any{
					map[string]any{"somethingElse": true},
					contItem(replyToken),
				},
			},
		}
	}
	return map[string]any{"commentThreadRenderer": ctr}
}

func contItem(token string) map[string]any {
	return map[string]any{
		"continuationItemRenderer": map[string]any{
			"continuationEndpoint": map[string]any{
				"continuationCommand": map[string]any{"token": token},
			},
		},
	}
}

func entity(key, author, text, replyCount string) map[string]any {
	toolbar := map[string]any{"likeCountNotliked": "3"}
	if replyCount != "" {
		toolbar["replyCount"] = replyCount
	}
	return map[string]any{
		"payload": map[string]any{
			"commentEntityPayload": map[string]any{
				"key": key,
				"author": map[string]any{
					"displayName":        author,
					"avatarThumbnailUrl": "https://yt3.ggpht.com/" + author,
				},
				"properties": map[string]any{
					"content":       map[string]any{"content": text},
					"publishedTime": "1 day ago",
				},
				"toolbar": toolbar,
			},
		},
	}
}

// response assembles an RPC page; action is "reload" or "append".
func response(action string, items []any, mutations []any) map[string]any {
	name := "appendContinuationItemsAction"
	if action == "reload" {
		name = "reloadContinuationItemsCommand"
	}
	out := map[string]any{
		"onResponseReceivedEndpoints": []any{
			map[string]any{name: map[string]any{"continuationItems": items}},
		},
	}
	if mutations != nil {
		out["frameworkUpdates"] = map[string]any{
			"entityBatchUpdate": map[string]any{"mutations": mutations},
		}
	}
	return out
}

func toJSON(t testing.TB, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func parse(t testing.TB, v any) gjson.Result {
	t.Helper()
	return gjson.Parse(toJSON(t, v))
}

type fakeNext struct {
	pages map[string]gjson.Result
	errs  map[string]error
	delay time.Duration

	inFlight atomic.Int32
	peak     atomic.Int32

	mu    sync.Mutex
	calls []string
}

func newFakeNext() *fakeNext {
	return &fakeNext{pages: map[string]gjson.Result{}, errs: map[string]error{}}
}

func (f *fakeNext) PostNext(ctx context.Context, apiURL, clientVersion, token string) (gjson.Result, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.calls = append(f.calls, token)
	f.mu.Unlock()

	if err := f.errs[token]; err != nil {
		return gjson.Result{}, err
	}
	page, ok := f.pages[token]
	if !ok {
		return gjson.Result{}, fmt.Errorf("unexpected token %q", token)
	}
	return page, nil
}

func (f *fakeNext) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
