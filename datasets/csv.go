package datasets

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
)

// table accumulates CSV rows with CRLF terminators, the dialect the notebooks
// were authored against. Fields with a leading space are quoted; pandas reads
// them back unchanged.
type table struct {
	buf bytes.Buffer
	w   *csv.Writer
}

func newTable(header ...string) *table {
	t := &table{}
	t.w = csv.NewWriter(&t.buf)
	t.w.UseCRLF = true
	t.row(header...)
	return t
}

func (t *table) row(fields ...string) {
	// Write only fails when the underlying writer does; bytes.Buffer never does.
	_ = t.w.Write(fields)
}

func (t *table) bytes() ([]byte, error) {
	t.w.Flush()
	if err := t.w.Error(); err != nil {
		return nil, err
	}
	return t.buf.Bytes(), nil
}

// formatFloat prints the shortest representation that round-trips, keeping a
// trailing ".0" on integral values (3 -> "3.0", 145531.5 -> "145531.5").
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if strings.ContainsAny(s, ".NI") {
		return s
	}
	return s + ".0"
}

func optionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func optionalString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func itoa(v int) string { return strconv.Itoa(v) }
