// Package importer reconciles an external exercise spreadsheet into the
// activity/event hierarchy.
package importer

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Record is one logical spreadsheet row that survived parsing.
type Record struct {
	Date     time.Time
	Exercise string
	Reps     string
	Sets     string
}

var errMissingColumns = errors.New("sheet header missing required columns")

// ParseSheet reads a tab-separated sheet with a
// Date/Exercise/Reps/Sets header. Every field is whitespace-trimmed.
// Structurally malformed rows and rows with an empty or unparseable date
// are skipped, never fatal; the skip count is returned alongside the
// surviving records.
func ParseSheet(r io.Reader) ([]Record, int, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, nil
		}
		return nil, 0, err
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	dateCol, okDate := cols["Date"]
	exerciseCol, okExercise := cols["Exercise"]
	repsCol, okReps := cols["Reps"]
	setsCol, okSets := cols["Sets"]
	if !okDate || !okExercise || !okReps || !okSets {
		return nil, 0, errMissingColumns
	}

	records := make([]Record, 0)
	skipped := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		if len(row) <= dateCol || len(row) <= exerciseCol || len(row) <= repsCol || len(row) <= setsCol {
			skipped++
			continue
		}

		date, err := time.Parse(dateLayout, strings.TrimSpace(row[dateCol]))
		if err != nil {
			skipped++
			continue
		}

		records = append(records, Record{
			Date:     date,
			Exercise: strings.TrimSpace(row[exerciseCol]),
			Reps:     strings.TrimSpace(row[repsCol]),
			Sets:     strings.TrimSpace(row[setsCol]),
		})
	}

	return records, skipped, nil
}

// GroupByDay buckets records by calendar date, preserving input order
// within each day.
func GroupByDay(records []Record) map[time.Time][]Record {
	days := make(map[time.Time][]Record)
	for _, rec := range records {
		days[rec.Date] = append(days[rec.Date], rec)
	}
	return days
}
