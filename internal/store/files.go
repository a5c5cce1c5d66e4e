package store

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"comment-archiver-go/internal/config"
)

type CSVer interface {
	ToCSV() []string
	CSVHeader() []string
}

// fileMu serializes appends; batch runs archive several videos at once.
var fileMu sync.Mutex

func fileFormat() string {
	switch config.AppConfig.SaveDataOption {
	case "csv", "xlsx", "json":
		return config.AppConfig.SaveDataOption
	default:
		return ""
	}
}

func writeVideoFile(v *Video) error {
	format := fileFormat()
	if format == "" {
		return nil
	}
	dir := VideoDir(v.VideoID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	fileMu.Lock()
	defer fileMu.Unlock()

	switch format {
	case "csv":
		f, err := os.OpenFile(filepath.Join(dir, "video.csv"), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err := f.WriteString("\xEF\xBB\xBF"); err != nil {
			return err
		}
		w := csv.NewWriter(f)
		if err := w.Write(v.CSVHeader()); err != nil {
			return err
		}
		if err := w.Write(v.ToCSV()); err != nil {
			return err
		}
		w.Flush()
		return w.Error()
	case "xlsx":
		path := filepath.Join(dir, "video.xlsx")
		_ = os.Remove(path)
		return appendXLSXRows(path, v.CSVHeader(), [][]string{v.ToCSV()})
	default:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(dir, "video.json"), append(b, '\n'), 0644)
	}
}

// appendCommentFile appends rows not yet recorded in the video's comments.idx
// and returns how many were new.
func appendCommentFile(videoID string, rows []CommentRow) (int, error) {
	format := fileFormat()
	if format == "" || len(rows) == 0 {
		return 0, nil
	}
	dir := VideoDir(videoID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, err
	}
	fileMu.Lock()
	defer fileMu.Unlock()

	indexPath := filepath.Join(dir, "comments.idx")
	seen, err := loadIndex(indexPath)
	if err != nil {
		return 0, err
	}
	fresh := make([]CommentRow, 0, len(rows))
	keys := make([]string, 0, len(rows))
	for _, r := range rows {
		k := strings.TrimSpace(r.CommentID)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		fresh = append(fresh, r)
		keys = append(keys, k)
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	switch format {
	case "csv":
		err = appendCSV(filepath.Join(dir, "comments.csv"), fresh)
	case "xlsx":
		table := make([][]string, len(fresh))
		for i := range fresh {
			table[i] = fresh[i].ToCSV()
		}
		err = appendXLSXRows(filepath.Join(dir, "comments.xlsx"), (&CommentRow{}).CSVHeader(), table)
	default:
		err = appendJSONL(filepath.Join(dir, "comments.jsonl"), fresh)
	}
	if err != nil {
		return 0, err
	}
	if err := appendIndex(indexPath, keys); err != nil {
		return 0, err
	}
	return len(fresh), nil
}

func appendJSONL(path string, rows []CommentRow) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	for i := range rows {
		if err := enc.Encode(&rows[i]); err != nil {
			return fmt.Errorf("encode comment %s: %w", rows[i].CommentID, err)
		}
	}
	return nil
}

func appendCSV(path string, rows []CommentRow) error {
	exists := false
	if _, err := os.Stat(path); err == nil {
		exists = true
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	// BOM for Excel
	if !exists {
		if _, err := f.WriteString("\xEF\xBB\xBF"); err != nil {
			return err
		}
	}
	w := csv.NewWriter(f)
	if !exists {
		if err := w.Write((&CommentRow{}).CSVHeader()); err != nil {
			return err
		}
	}
	for i := range rows {
		if err := w.Write(rows[i].ToCSV()); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func loadIndex(path string) (map[string]struct{}, error) {
	out := map[string]struct{}{}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if k := strings.TrimSpace(sc.Text()); k != "" {
			out[k] = struct{}{}
		}
	}
	return out, sc.Err()
}

func appendIndex(path string, keys []string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(strings.Join(keys, "\n") + "\n")
	return err
}
