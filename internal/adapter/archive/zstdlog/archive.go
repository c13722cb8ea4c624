package zstdlog

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/klauspost/compress/zstd"

	"creepwork/internal/app/ports"
)

const filePrefix = "ticks"

// TickArchive records one JSONL line per tick summary under dir.
type TickArchive struct{ w *JSONLZstdWriter }

func NewTickArchive(dir string) *TickArchive {
	return &TickArchive{w: NewJSONLZstdWriter(dir, filePrefix)}
}

func (a *TickArchive) RecordTick(_ context.Context, summary ports.TickSummary) error {
	return a.w.Write(summary)
}

func (a *TickArchive) Close() error { return a.w.Close() }

// Files lists the archive files under dir in write order.
func Files(dir string) ([]string, error) {
	names, err := filepath.Glob(filepath.Join(dir, filePrefix+"-*.jsonl.zst"))
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// ReadFile decodes every summary in one archive file.
func ReadFile(path string) ([]ports.TickSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)

	var out []ports.TickSummary
	for sc.Scan() {
		var s ports.TickSummary
		if err := json.Unmarshal(sc.Bytes(), &s); err != nil {
			return out, fmt.Errorf("%s: unmarshal: %w", filepath.Base(path), err)
		}
		out = append(out, s)
	}
	if err := sc.Err(); err != nil {
		return out, fmt.Errorf("%s: scan: %w", filepath.Base(path), err)
	}
	return out, nil
}
