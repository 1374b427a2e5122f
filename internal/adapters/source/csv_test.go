package source_test

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/okian/wodboard/internal/adapters/source"
	"github.com/stretchr/testify/assert"
)

func TestParseRows(t *testing.T) {
	in := "category,name,division,score,tiebreak\n" +
		"men, Amy ,rx,150,4:10\n" +
		"\n" +
		"   \n" +
		"women,Dana\n"

	rows, err := source.ParseRows(strings.NewReader(in))
	assert.NoError(t, err)
	assert.Len(t, rows, 2)

	assert.Equal(t, []string{"men", "Amy", "rx", "150", "4:10"}, rows[0].Cells)
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, []string{"women", "Dana"}, rows[1].Cells)
	assert.Equal(t, 5, rows[1].Line)
}

func TestParseRowsHeaderOnly(t *testing.T) {
	rows, err := source.ParseRows(strings.NewReader("category,name,division,score\n"))
	assert.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = source.ParseRows(strings.NewReader(""))
	assert.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseRowsQuotedCell(t *testing.T) {
	in := "h\nmen,\"Smith, Jo\",rx,10\n"

	rows, err := source.ParseRows(strings.NewReader(in))
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "Smith, Jo", rows[0].Cells[1])
}

func TestParseRowsReadError(t *testing.T) {
	_, err := source.ParseRows(iotest.ErrReader(errors.New("boom")))
	assert.True(t, errors.Is(err, source.ErrParse))
}

func TestParseWorkouts(t *testing.T) {
	in := "event,description\n" +
		"1,For time:\\n21-15-9, thrusters\n" +
		"2\n" +
		"3,AMRAP 12\n" +
		"1,Replaced\n"

	workouts, err := source.ParseWorkouts(strings.NewReader(in))
	assert.NoError(t, err)
	assert.Len(t, workouts, 2)

	assert.Equal(t, "1", workouts[0].EventID)
	assert.Equal(t, "Replaced", workouts[0].Description)
	assert.Equal(t, "3", workouts[1].EventID)
	assert.Equal(t, "AMRAP 12", workouts[1].Description)
}

func TestParseWorkoutsRejoinsCommas(t *testing.T) {
	in := "event,description\n1,For time:\\n21-15-9, thrusters\n"

	workouts, err := source.ParseWorkouts(strings.NewReader(in))
	assert.NoError(t, err)
	assert.Len(t, workouts, 1)
	assert.Equal(t, "For time:\n21-15-9,thrusters", workouts[0].Description)
}
