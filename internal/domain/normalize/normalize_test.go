package normalize_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/wodboard/internal/domain/model"
	normalize "github.com/okian/wodboard/internal/domain/normalize"
	"github.com/okian/wodboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func row(line int, cells ...string) model.RawRow {
	return model.RawRow{Line: line, Cells: cells}
}

func TestNormalize(t *testing.T) {
	Convey("Given a normalizer with default categories", t, func() {
		n := normalize.New()
		ctx := context.Background()

		Convey("When normalizing a time row", func() {
			perfs, rejected := n.Normalize(ctx, []model.RawRow{row(2, "Men", "Amy", "RX", "5:07", "")}, "1")

			Convey("Then it becomes a time performance in seconds", func() {
				So(rejected, ShouldBeEmpty)
				So(len(perfs), ShouldEqual, 1)
				p := perfs[0]
				So(p.EventID, ShouldEqual, "1")
				So(p.Category, ShouldEqual, model.Category("men"))
				So(p.Division, ShouldEqual, model.DivisionRx)
				So(p.ScoreKind, ShouldEqual, model.ScoreTime)
				So(p.ScoreValue, ShouldEqual, 307)
				So(p.ScoreRaw, ShouldEqual, "5:07")
				So(p.HasTiebreak, ShouldBeFalse)
			})
		})

		Convey("When normalizing a count row with a tiebreak", func() {
			perfs, _ := n.Normalize(ctx, []model.RawRow{row(3, "women", "Cara", "sc", "142", "11:30")}, "2")

			Convey("Then the tiebreak is parsed as seconds", func() {
				So(len(perfs), ShouldEqual, 1)
				p := perfs[0]
				So(p.Division, ShouldEqual, model.DivisionScaled)
				So(p.ScoreKind, ShouldEqual, model.ScoreCount)
				So(p.ScoreValue, ShouldEqual, 142)
				So(p.HasTiebreak, ShouldBeTrue)
				So(p.Tiebreak, ShouldEqual, 690)
			})
		})

		Convey("When the score is missing or not numeric", func() {
			perfs, rejected := n.Normalize(ctx, []model.RawRow{
				row(2, "men", "Bob"),
				row(3, "men", "Dan", "rx", "DNF"),
			}, "1")

			Convey("Then the rows are kept as zero counts", func() {
				So(rejected, ShouldBeEmpty)
				So(len(perfs), ShouldEqual, 2)
				for _, p := range perfs {
					So(p.ScoreKind, ShouldEqual, model.ScoreCount)
					So(p.ScoreValue, ShouldEqual, 0)
				}
			})
		})

		Convey("When rows are malformed", func() {
			perfs, rejected := n.Normalize(ctx, []model.RawRow{
				row(2, "men"),
				row(3, "men", "", "rx", "10"),
				row(4, "", "Eve", "rx", "10"),
				row(5, "men", "Fay", "rx", "10"),
			}, "1")

			Convey("Then they are rejected and the rest survive", func() {
				So(len(perfs), ShouldEqual, 1)
				So(perfs[0].Name, ShouldEqual, "Fay")
				So(len(rejected), ShouldEqual, 3)
				for _, r := range rejected {
					So(errors.Is(r.Reason, normalize.ErrMalformedRow), ShouldBeTrue)
				}
				So(rejected[0].Line, ShouldEqual, 2)
			})
		})

		Convey("When a row has an unknown category", func() {
			perfs, rejected := n.Normalize(ctx, []model.RawRow{row(2, "kids", "Gus", "rx", "10")}, "1")

			Convey("Then it is dropped with ErrUnknownCategory", func() {
				So(perfs, ShouldBeEmpty)
				So(len(rejected), ShouldEqual, 1)
				So(errors.Is(rejected[0].Reason, normalize.ErrUnknownCategory), ShouldBeTrue)
			})
		})
	})

	Convey("Given a normalizer with custom categories", t, func() {
		n := normalize.New(normalize.WithCategories([]string{"Masters"}))

		Convey("Then only those categories are accepted", func() {
			perfs, rejected := n.Normalize(context.Background(), []model.RawRow{
				row(2, "MASTERS", "Hal", "rx", "10"),
				row(3, "men", "Ian", "rx", "10"),
			}, "1")
			So(len(perfs), ShouldEqual, 1)
			So(perfs[0].Category, ShouldEqual, model.Category("masters"))
			So(len(rejected), ShouldEqual, 1)
		})
	})
}

func TestParseScore(t *testing.T) {
	Convey("Given score cells", t, func() {
		Convey("Then M:SS and MM:SS are times", func() {
			kind, v := normalize.ParseScore("9:05")
			So(kind, ShouldEqual, model.ScoreTime)
			So(v, ShouldEqual, 545)

			kind, v = normalize.ParseScore("12:00")
			So(kind, ShouldEqual, model.ScoreTime)
			So(v, ShouldEqual, 720)
		})

		Convey("Then other shapes are counts", func() {
			kind, v := normalize.ParseScore("1:2:03")
			So(kind, ShouldEqual, model.ScoreCount)
			So(v, ShouldEqual, 0)

			kind, v = normalize.ParseScore("123:00")
			So(kind, ShouldEqual, model.ScoreCount)
			So(v, ShouldEqual, 0)

			kind, v = normalize.ParseScore("87")
			So(kind, ShouldEqual, model.ScoreCount)
			So(v, ShouldEqual, 87)
		})
	})
}

func TestParseTiebreak(t *testing.T) {
	Convey("Given tiebreak cells", t, func() {
		v, ok := normalize.ParseTiebreak("")
		So(ok, ShouldBeFalse)

		v, ok = normalize.ParseTiebreak("3:15")
		So(ok, ShouldBeTrue)
		So(v, ShouldEqual, 195)

		v, ok = normalize.ParseTiebreak("40")
		So(ok, ShouldBeTrue)
		So(v, ShouldEqual, 40)

		_, ok = normalize.ParseTiebreak("n/a")
		So(ok, ShouldBeFalse)
	})
}
