package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/rushteam/movierec/core"
)

const genreSep = "|"

// writeCSV 写入表头与 n 行记录。
func writeCSV(path string, header []string, n int, record func(i int) []string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := w.Write(record(i)); err != nil {
			return fmt.Errorf("%s line %d: %w", path, i+2, err)
		}
	}
	w.Flush()
	return w.Error()
}

// readCSV 校验表头后逐行回调 parse。
func readCSV(path string, header []string, parse func(rec []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(header)
	r.ReuseRecord = true

	got, err := r.Read()
	if err != nil {
		return fmt.Errorf("%s: read header: %w", path, err)
	}
	if !slices.Equal(got, header) {
		return fmt.Errorf("%s: header %v, want %v", path, got, header)
	}

	for line := 2; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := parse(rec); err != nil {
			return fmt.Errorf("%s line %d: %w", path, line, err)
		}
	}
}

func parseID(s string) (core.EntityID, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parse id %q: %w", s, err)
	}
	return core.EntityID(v), nil
}

func formatID(id core.EntityID) string {
	return strconv.FormatUint(uint64(id), 10)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// splitGenres 按 '|' 拆分 genres，空串返回 nil。
func splitGenres(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, genreSep)
}

// noGenres 是原始 MovieLens 中表示无类型的占位值。
const noGenres = "(no genres listed)"

// splitMovieLensGenres 同 splitGenres，但把 "(no genres listed)" 视为无类型。
func splitMovieLensGenres(s string) []string {
	if s == noGenres {
		return nil
	}
	return splitGenres(s)
}
