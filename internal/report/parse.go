package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// numColumns is the fixed width of the activity feed: the upstream endpoint
// returns headerless rows in this exact order.
const numColumns = 17

// timeLayouts are the timestamp formats the feed has been observed to emit.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseRecords turns a raw feed payload into typed records. Rows whose start
// or end timestamp does not parse are dropped silently; a payload that is not
// well-formed delimited data fails as a whole and yields no records.
func ParseRecords(raw string) ([]Record, error) {
	reader := csv.NewReader(strings.NewReader(raw))
	reader.FieldsPerRecord = numColumns

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed activity payload: %w", err)
		}

		start, ok := parseTimestamp(row[7])
		if !ok {
			continue
		}
		end, ok := parseTimestamp(row[8])
		if !ok {
			continue
		}

		assignee := strings.ToLower(strings.TrimSpace(row[3]))
		if assignee == "" {
			assignee = UnassignedMember
		}

		transfers, _ := strconv.Atoi(strings.TrimSpace(row[5]))

		records = append(records, Record{
			ID:        strings.TrimSpace(row[0]),
			Type:      strings.TrimSpace(row[1]),
			Severity:  strings.TrimSpace(row[2]),
			Assignee:  assignee,
			Location:  strings.TrimSpace(row[4]),
			Transfers: transfers,
			Tags:      strings.ToLower(strings.TrimSpace(row[6])),
			Start:     start,
			End:       end,
			Duration:  strings.TrimSpace(row[9]),
			Title:     strings.TrimSpace(row[10]),
			Entities: [3]Entity{
				{Code: strings.TrimSpace(row[11]), Name: strings.TrimSpace(row[12])},
				{Code: strings.TrimSpace(row[13]), Name: strings.TrimSpace(row[14])},
				{Code: strings.TrimSpace(row[15]), Name: strings.TrimSpace(row[16])},
			},
		})
	}

	return records, nil
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
