package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/okian/wodboard/internal/domain/model"
)

// ParseRows reads a result CSV. The first record is a header and is dropped;
// blank records are skipped and every cell is trimmed. Records may carry any
// number of cells, validation is left to the normalizer.
func ParseRows(r io.Reader) ([]model.RawRow, error) {
	var rows []model.RawRow
	err := readRecords(r, func(line int, cells []string) {
		rows = append(rows, model.RawRow{Line: line, Cells: cells})
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ParseWorkouts reads the workouts CSV: event id followed by a description.
// Extra commas belong to the description and the two-character sequence `\n`
// becomes a line break. A repeated id replaces the earlier description.
func ParseWorkouts(r io.Reader) ([]model.Workout, error) {
	var out []model.Workout
	index := make(map[string]int)
	err := readRecords(r, func(_ int, cells []string) {
		if len(cells) < 2 || cells[0] == "" {
			return
		}
		desc := strings.TrimSpace(strings.Join(cells[1:], ","))
		desc = strings.ReplaceAll(desc, `\n`, "\n")
		if i, ok := index[cells[0]]; ok {
			out[i].Description = desc
			return
		}
		index[cells[0]] = len(out)
		out = append(out, model.Workout{EventID: cells[0], Description: desc})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func readRecords(r io.Reader, fn func(line int, cells []string)) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	header := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrParse, err)
		}
		line, _ := cr.FieldPos(0)
		if header {
			header = false
			continue
		}
		cells := make([]string, len(rec))
		blank := true
		for i, c := range rec {
			cells[i] = strings.TrimSpace(c)
			if cells[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		fn(line, cells)
	}
}
