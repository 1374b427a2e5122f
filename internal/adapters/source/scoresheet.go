package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/okian/wodboard/internal/domain/model"
)

// Column names of the registration scoresheet export.
const (
	ScoresheetNameColumn    = "Vor- und Nachname"
	ScoresheetVersionColumn = "Version"
	ScoresheetRepsColumn    = "Reps"
)

// ResultHeader is the header line written in front of converted results.
var ResultHeader = []string{"category", "name", "division", "score", "tiebreak"}

// ConvertScoresheet rewrites a registration scoresheet into a result CSV for
// one category. Columns are looked up by header name. A version of "rx" (any
// case) stays Rx and everything else becomes scaled; the tiebreak is left
// empty. It returns the number of results written.
func ConvertScoresheet(r io.Reader, w io.Writer, category string) (int, error) {
	cat := model.NormalizeCategory(category)
	if cat == "" {
		return 0, fmt.Errorf("%w: category must not be empty", ErrScoresheet)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("%w: empty scoresheet", ErrScoresheet)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrParse, err)
	}
	cols, err := scoresheetColumns(header)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(ResultHeader); err != nil {
		return 0, err
	}

	written := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return written, fmt.Errorf("%w: %v", ErrParse, err)
		}
		line, _ := cr.FieldPos(0)

		name := cell(rec, cols.name)
		if name == "" {
			continue
		}
		reps, err := strconv.Atoi(cell(rec, cols.reps))
		if err != nil {
			return written, fmt.Errorf("%w: line %d: reps %q is not a number", ErrScoresheet, line, cell(rec, cols.reps))
		}
		division := "sc"
		if strings.EqualFold(cell(rec, cols.version), "rx") {
			division = "rx"
		}
		if err := cw.Write([]string{string(cat), name, division, strconv.Itoa(reps), ""}); err != nil {
			return written, err
		}
		written++
	}

	cw.Flush()
	return written, cw.Error()
}

type scoresheetIndex struct {
	name, version, reps int
}

func scoresheetColumns(header []string) (scoresheetIndex, error) {
	idx := scoresheetIndex{name: -1, version: -1, reps: -1}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		switch {
		case strings.EqualFold(h, ScoresheetNameColumn):
			idx.name = i
		case strings.EqualFold(h, ScoresheetVersionColumn):
			idx.version = i
		case strings.EqualFold(h, ScoresheetRepsColumn):
			idx.reps = i
		}
	}
	var missing []string
	if idx.name < 0 {
		missing = append(missing, ScoresheetNameColumn)
	}
	if idx.version < 0 {
		missing = append(missing, ScoresheetVersionColumn)
	}
	if idx.reps < 0 {
		missing = append(missing, ScoresheetRepsColumn)
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("%w: missing columns %q", ErrScoresheet, missing)
	}
	return idx, nil
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
