package repository

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// utf8BOM はExcel等で保存されたCSVの先頭に付与されるバイト列。
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// csvTable はヘッダー行とデータ行に分けたCSVの内容。
type csvTable struct {
	header []string
	rows   [][]string
}

// column はヘッダー名に対応する列番号を返す。存在しない場合は-1を返す。
func (t *csvTable) column(name string) int {
	for i, h := range t.header {
		if h == name {
			return i
		}
	}
	return -1
}

// field は指定行の指定列の値を返す。列が足りない行は空文字として扱う。
func field(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// readCSVFile はCSVファイルを読み込む。
// ファイルが存在しない場合はexists=falseを返す。
func readCSVFile(path string) (table *csvTable, exists bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	// 列数が揃っていない行も読み込む（欠けた列は空文字）
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, true, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	t := &csvTable{}
	if len(records) == 0 {
		return t, true, nil
	}
	t.header = records[0]
	t.rows = records[1:]
	return t, true, nil
}

// writeCSVFileAtomic はヘッダーとデータ行を一時ファイルに書き出し、
// 同じディレクトリ内でrenameして置き換える。
// 書き込み途中で失敗しても既存ファイルは壊れない。
func writeCSVFileAtomic(path string, header []string, rows [][]string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	defer func() {
		// rename済みの場合は存在しないため無視される
		os.Remove(tmpName)
	}()

	if err := writeCSV(tmp, header, rows); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file for %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to chmod temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}
