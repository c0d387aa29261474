package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"smart-retail-bookstore/internal/domain"
)

type BookWriter interface {
	Upsert(ctx context.Context, book domain.Book) (*domain.Book, error)
}

// CSVImporter reads book catalog CSV exports and inserts/updates books.
type CSVImporter struct {
	reader   *csv.Reader
	bookRepo BookWriter
}

func NewCSVImporter(r io.Reader, repo BookWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:   csvr,
		bookRepo: repo,
	}
}

type csvRow struct {
	Title       string
	Author      string
	Desc        string
	Genre       string
	PriceCents  int64
	ImageURL    string
	Pages       int
	ReleaseYear int
}

// Run parses CSV rows and upserts one book per row.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row := parseRow(record, index)
		if row == nil {
			continue
		}
		if err := i.save(ctx, row); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	if row.Title == "" || row.Author == "" {
		return fmt.Errorf("invalid book row (missing title or author) for %q", row.Title)
	}

	b := domain.Book{
		Title:       row.Title,
		Author:      row.Author,
		Description: row.Desc,
		Genre:       row.Genre,
		PriceCents:  row.PriceCents,
		ImageURL:    row.ImageURL,
		Pages:       row.Pages,
		ReleaseYear: row.ReleaseYear,
	}

	if _, err := i.bookRepo.Upsert(ctx, b); err != nil {
		return fmt.Errorf("upsert book %q: %w", row.Title, err)
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	title := pick(record, index, "title")
	author := pick(record, index, "author")
	if title == "" && author == "" {
		return nil
	}

	row := &csvRow{
		Title:  title,
		Author: author,
		Desc:   pick(record, index, "description"),
		Genre:  pick(record, index, "genre"),
	}

	// Prices come as dollar amounts ("15.99") in catalog exports.
	if raw := pick(record, index, "price"); raw != "" {
		if dollars, err := strconv.ParseFloat(strings.TrimPrefix(raw, "$"), 64); err == nil {
			row.PriceCents = int64(math.Round(dollars * 100))
		}
	}
	row.ImageURL = pick(record, index, "image_url")
	if raw := pick(record, index, "pages"); raw != "" {
		row.Pages, _ = strconv.Atoi(raw)
	}
	if raw := pick(record, index, "release_year"); raw != "" {
		row.ReleaseYear, _ = strconv.Atoi(raw)
	}
	return row
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
