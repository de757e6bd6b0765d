package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"kotd-tracker/internal/models"
)

// ErrorKind classifies extraction failures. All of them are fatal for
// the ingestion attempt that hit them; nothing is written.
type ErrorKind string

const (
	ErrNoTimestamp  ErrorKind = "no_timestamp"
	ErrBadTimestamp ErrorKind = "bad_timestamp"
	ErrNoTable      ErrorKind = "no_table"
	ErrEmptyTable   ErrorKind = "empty_table"
)

type ParseError struct {
	Kind    ErrorKind
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("shop parse failed (%s): %s", e.Kind, e.Message)
}

// ShopTable is the result of extracting one shop post.
type ShopTable struct {
	// UpdatedAt is the "Last Updated" instant of the post, in UTC.
	UpdatedAt time.Time
	Rows      []models.RawRow
	// Dropped counts malformed data lines that were skipped. A partially
	// corrupted row never aborts the batch.
	Dropped int
}

// Date returns the ISO calendar date (UTC) the post was updated on.
func (t *ShopTable) Date() string {
	return t.UpdatedAt.UTC().Format("2006-01-02")
}

var (
	updatedRe = regexp.MustCompile(`Last Updated:\s*(.+?)\s*UTC`)
	headerRe  = regexp.MustCompile(`\|\s*Price\s*\|\s*ID\s*\|\s*Type\s*\|\s*Name\s*\|\s*Damage\s*\|\s*Durability\s*\|\s*Element\s*\|\s*Req\s*Lv\.?\s*\|`)
	dashesRe  = regexp.MustCompile(`^:?-+:?$`)
)

// The post has used a couple of date renderings over time.
var updatedLayouts = []string{
	"January 2 2006 15:04",
	"January 2, 2006 15:04",
	"Jan 2 2006 15:04",
	"Jan 2, 2006 15:04",
	"January 2 2006",
	"January 2, 2006",
}

// ExtractShop pulls the update timestamp and the item table out of the
// raw post markdown. Individual malformed rows are dropped and
// counted; structural problems return a *ParseError.
func ExtractShop(raw string) (*ShopTable, error) {
	updatedAt, err := extractUpdatedAt(raw)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(raw, "\n")
	headerIdx := -1
	for i, line := range lines {
		if headerRe.MatchString(line) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return nil, &ParseError{Kind: ErrNoTable, Message: "item table header not found"}
	}

	table := &ShopTable{UpdatedAt: updatedAt}
	for _, line := range lines[headerIdx+1:] {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || !strings.HasPrefix(line, "|") {
			// next section heading or end of table
			break
		}
		cells := splitRow(line)
		if isSeparatorRow(cells) {
			continue
		}
		row, ok := buildRow(cells)
		if !ok {
			table.Dropped++
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	if len(table.Rows) == 0 {
		// a header with no data means the fetch or the post format broke,
		// not an empty-but-valid day
		return nil, &ParseError{Kind: ErrEmptyTable, Message: "item table has no valid rows"}
	}
	return table, nil
}

func extractUpdatedAt(raw string) (time.Time, error) {
	m := updatedRe.FindStringSubmatch(raw)
	if m == nil {
		return time.Time{}, &ParseError{Kind: ErrNoTimestamp, Message: "no update date found"}
	}
	// "September 4 2023 - 00:00" -> "September 4 2023 00:00"
	cleaned := strings.TrimSpace(strings.ReplaceAll(m[1], " - ", " "))
	for _, layout := range updatedLayouts {
		if ts, err := time.ParseInLocation(layout, cleaned, time.UTC); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, &ParseError{Kind: ErrBadTimestamp, Message: fmt.Sprintf("unreadable update date %q", cleaned)}
}

func splitRow(line string) []string {
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")
	cells := strings.Split(line, "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

// isSeparatorRow reports whether every cell is a markdown alignment
// run like "---" or ":-:".
func isSeparatorRow(cells []string) bool {
	for _, c := range cells {
		if !dashesRe.MatchString(c) {
			return false
		}
	}
	return len(cells) > 0
}

// buildRow promotes a cell slice to a RawRow. Valid rows have exactly
// 8 cells and an integer id.
func buildRow(cells []string) (models.RawRow, bool) {
	if len(cells) != 8 {
		return models.RawRow{}, false
	}
	id, err := strconv.ParseInt(cells[1], 10, 64)
	if err != nil {
		return models.RawRow{}, false
	}
	return models.RawRow{
		Price:      cells[0],
		ID:         id,
		Type:       cells[2],
		Name:       cells[3],
		Damage:     cells[4],
		Durability: cells[5],
		Element:    cells[6],
		ReqLevel:   cells[7],
	}, true
}
