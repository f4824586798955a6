package db

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type wordRecord struct {
	Category string
	Text     string
}

// LoadWordLibrary reads words from a CSV and inserts the ones not already in
// the word_libraries table. It returns the number of new rows.
func LoadWordLibrary(conn *gorm.DB, path string) (int64, error) {
	if conn == nil {
		return 0, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	records, err := readWords(file)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}
	entries := make([]WordLibrary, 0, len(records))
	for _, record := range records {
		entries = append(entries, WordLibrary{Category: record.Category, Text: record.Text})
	}
	result := conn.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&entries, 200)
	return result.RowsAffected, result.Error
}

// readWords accepts either "text" rows or "category,text" rows. The first
// row is a header and is skipped.
func readWords(r io.Reader) ([]wordRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	seen := make(map[wordRecord]struct{})
	var records []wordRecord
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		record := wordRecord{}
		if len(row) >= 2 {
			record.Category = strings.TrimSpace(row[0])
			record.Text = strings.TrimSpace(row[1])
		} else {
			record.Text = strings.TrimSpace(row[0])
		}
		if record.Text == "" {
			continue
		}
		if _, dup := seen[record]; dup {
			continue
		}
		seen[record] = struct{}{}
		records = append(records, record)
	}
	return records, nil
}

// WordSource serves word suggestions from the word_libraries table.
type WordSource struct {
	conn *gorm.DB
}

func NewWordSource(conn *gorm.DB) *WordSource {
	return &WordSource{conn: conn}
}

func (w *WordSource) Suggest(ctx context.Context, count int) ([]string, error) {
	var words []string
	err := w.conn.WithContext(ctx).
		Model(&WordLibrary{}).
		Order("random()").
		Limit(count).
		Pluck("text", &words).Error
	return words, err
}
