package stats

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// ReadFirstTimestamp reads the first data row of a summary_out.csv file
// (header row, then samples) and parses its first column as the
// iteration's start timestamp — either a Unix epoch (seconds, allowing a
// fractional part) or RFC 3339.
func ReadFirstTimestamp(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil { // header
		return time.Time{}, fmt.Errorf("reading header of %s: %w", path, err)
	}
	row, err := r.Read()
	if err != nil {
		return time.Time{}, fmt.Errorf("reading first data row of %s: %w", path, err)
	}
	if len(row) == 0 {
		return time.Time{}, fmt.Errorf("%s: empty first data row", path)
	}

	if epoch, err := strconv.ParseFloat(row[0], 64); err == nil {
		sec := int64(epoch)
		nsec := int64((epoch - float64(sec)) * 1e9)
		return time.Unix(sec, nsec).UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, row[0]); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%s: unparseable timestamp %q", path, row[0])
}
