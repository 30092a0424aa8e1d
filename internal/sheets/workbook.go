package sheets

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// Source yields the raw workbook bytes plus a version string identifying the
// revision that was read. Version must be cheap to obtain on its own so
// callers can check caches without downloading the whole workbook.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, string, error)
	Version(ctx context.Context) (string, error)
}

// FileSource reads the workbook from local disk. The version is derived from
// the file's size and modification time.
type FileSource struct {
	Path string
}

func (s FileSource) Open(ctx context.Context) (io.ReadCloser, string, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, "", fmt.Errorf("open workbook %q: %w", s.Path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, "", fmt.Errorf("stat workbook %q: %w", s.Path, err)
	}
	return f, fileVersion(info.Size(), info.ModTime().UnixNano()), nil
}

func (s FileSource) Version(ctx context.Context) (string, error) {
	info, err := os.Stat(s.Path)
	if err != nil {
		return "", fmt.Errorf("stat workbook %q: %w", s.Path, err)
	}
	return fileVersion(info.Size(), info.ModTime().UnixNano()), nil
}

func fileVersion(size, mtime int64) string {
	return strconv.FormatInt(size, 16) + "-" + strconv.FormatInt(mtime, 16)
}

// Workbook is the row-fetch capability over one spreadsheet revision.
type Workbook struct {
	file    *excelize.File
	version string
}

// Open downloads and parses the workbook from src. The returned Workbook is a
// point-in-time snapshot; the source changing afterwards does not affect it.
func Open(ctx context.Context, src Source) (*Workbook, error) {
	rc, version, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	f, err := excelize.OpenReader(rc)
	if err != nil {
		return nil, fmt.Errorf("parse workbook: %w", err)
	}
	return &Workbook{file: f, version: version}, nil
}

func (w *Workbook) Version() string {
	return w.version
}

// Rows returns the data rows of the named sheet with the header row stripped.
// A missing sheet is an upstream failure, not empty data.
func (w *Workbook) Rows(sheet string) ([][]string, error) {
	rows, err := w.file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil
}

func (w *Workbook) Close() error {
	return w.file.Close()
}
