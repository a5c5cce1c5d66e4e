package api

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"comment-archiver-go/internal/config"

	"github.com/xuri/excelize/v2"
)

type fileInfo struct {
	Root        string `json:"root"`
	Name        string `json:"name"`
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	ModifiedAt  int64  `json:"modified_at"`
	RecordCount *int   `json:"record_count,omitempty"`
	Type        string `json:"type"`
}

var supportedExt = map[string]struct{}{
	".html":  {},
	".json":  {},
	".jsonl": {},
	".csv":   {},
	".xlsx":  {},
	".db":    {},
}

// fileRoots names the directories the files endpoints may read: rendered
// archives and the store output.
func fileRoots() map[string]string {
	out := strings.TrimSpace(config.AppConfig.OutputDir)
	if out == "" {
		out = filepath.Join("data", "archives")
	}
	data := strings.TrimSpace(config.AppConfig.DataDir)
	if data == "" {
		data = "data"
	}
	return map[string]string{"archives": out, "data": data}
}

func (s *Server) handleFilesList(w http.ResponseWriter, r *http.Request) {
	fileType := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("file_type")))
	video := strings.TrimSpace(r.URL.Query().Get("video_id"))

	files := make([]fileInfo, 0, 64)
	seen := map[string]struct{}{}
	roots := fileRoots()
	names := make([]string, 0, len(roots))
	for name := range roots {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		dir := roots[name]
		abs, _ := filepath.Abs(dir)
		list, err := listFiles(name, dir, fileType, video, seen)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
			return
		}
		seen[abs] = struct{}{}
		files = append(files, list...)
	}
	sort.SliceStable(files, func(i, j int) bool { return files[i].ModifiedAt > files[j].ModifiedAt })
	writeJSON(w, http.StatusOK, map[string]any{"files": files})
}

// listFiles walks dir. Directories already listed under another root are
// skipped, so the archive dir nested inside the data dir is reported once.
func listFiles(root, dir, fileType, video string, skip map[string]struct{}) ([]fileInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []fileInfo
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if abs, _ := filepath.Abs(path); path != dir {
				if _, ok := skip[abs]; ok {
					return filepath.SkipDir
				}
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(d.Name()))
		if _, ok := supportedExt[ext]; !ok {
			return nil
		}
		if fileType != "" && strings.TrimPrefix(ext, ".") != fileType {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if video != "" && !strings.Contains(rel, video) {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return nil
		}
		rc, _ := countRecords(path)
		out = append(out, fileInfo{
			Root:        root,
			Name:        d.Name(),
			Path:        root + "/" + rel,
			Size:        fi.Size(),
			ModifiedAt:  fi.ModTime().Unix(),
			RecordCount: rc,
			Type:        strings.TrimPrefix(ext, "."),
		})
		return nil
	})
	return out, err
}

func (s *Server) handleFileDownload(w http.ResponseWriter, r *http.Request) {
	p := r.PathValue("path")
	root, rel, _ := strings.Cut(p, "/")
	dir, ok := fileRoots()[root]
	if !ok || rel == "" {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "file not found"})
		return
	}
	fullPath, err := safePath(dir, rel)
	if err != nil {
		writeJSON(w, http.StatusForbidden, map[string]any{"error": "access denied"})
		return
	}
	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "file not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	if info.IsDir() {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "not a file"})
		return
	}
	serveFile(w, fullPath, filepath.Base(fullPath))
}

func safePath(baseDir, rel string) (string, error) {
	if strings.Contains(rel, "\x00") {
		return "", errors.New("invalid path")
	}
	rel = filepath.Clean(filepath.FromSlash(strings.TrimPrefix(rel, "/")))
	if rel == "." || rel == "" || filepath.IsAbs(rel) {
		return "", errors.New("invalid path")
	}
	baseAbs, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}
	fullAbs, err := filepath.Abs(filepath.Join(baseDir, rel))
	if err != nil {
		return "", err
	}
	relTo, err := filepath.Rel(baseAbs, fullAbs)
	if err != nil {
		return "", err
	}
	if relTo == "." || relTo == ".." || strings.HasPrefix(relTo, ".."+string(filepath.Separator)) {
		return "", errors.New("access denied")
	}
	return fullAbs, nil
}

// countRecords reports rows for store files; other types return nil.
func countRecords(path string) (*int, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		n, err := countLines(f)
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(filepath.Ext(path), ".csv") {
			n = max(n-1, 0)
		}
		return &n, nil
	case ".xlsx":
		wb, err := excelize.OpenFile(path)
		if err != nil {
			return nil, err
		}
		defer wb.Close()
		rows, err := wb.GetRows(wb.GetSheetName(0))
		if err != nil {
			return nil, err
		}
		n := max(len(rows)-1, 0)
		return &n, nil
	default:
		return nil, nil
	}
}

func countLines(r io.Reader) (int, error) {
	n := 0
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
	for sc.Scan() {
		if len(bytes.TrimSpace(sc.Bytes())) > 0 {
			n++
		}
	}
	return n, sc.Err()
}

func serveFile(w http.ResponseWriter, path, filename string) {
	f, err := os.Open(path)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	defer f.Close()

	ct := "application/octet-stream"
	disposition := "attachment"
	if strings.EqualFold(filepath.Ext(path), ".html") {
		ct = "text/html; charset=utf-8"
		disposition = "inline"
	}
	w.Header().Set("content-type", ct)
	w.Header().Set("content-disposition", disposition+`; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, f)
}
