package rankcli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/okian/wodboard/internal/domain/types"
)

// Output is what the tool prints with --json.
type Output struct {
	Report types.RefreshReport  `json:"report"`
	Boards []types.Leaderboard  `json:"boards"`
	Events []types.EventResults `json:"events,omitempty"`
}

func writeJSON(w io.Writer, out Output) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeText(w io.Writer, out Output) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, lb := range out.Boards {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		writeBoard(tw, lb)
	}
	for _, er := range out.Events {
		fmt.Fprintln(tw)
		writeEvent(tw, er)
	}
	return tw.Flush()
}

func writeBoard(w io.Writer, lb types.Leaderboard) {
	fmt.Fprintf(w, "%s (snapshot %s)\n", strings.ToUpper(lb.Category), lb.SnapshotID)

	header := []string{"RANK", "NAME", "POINTS"}
	for _, id := range lb.Events {
		header = append(header, "EVENT "+id)
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, st := range lb.Standings {
		row := []string{strconv.Itoa(st.Rank), st.Name, strconv.Itoa(st.Points)}
		for _, id := range lb.Events {
			row = append(row, scoreCell(st.Events[id]))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	if len(lb.Rejected) > 0 {
		fmt.Fprintf(w, "%d rejected rows\n", len(lb.Rejected))
	}
}

func writeEvent(w io.Writer, er types.EventResults) {
	fmt.Fprintf(w, "EVENT %s %s (next rank %d)\n", er.EventID, strings.ToUpper(er.Category), er.NextRank)
	fmt.Fprintln(w, "RANK\tNAME\tSCORE\tDIVISION\tTIEBREAK")
	for _, r := range er.Results {
		tb := ""
		if r.Tiebreak != nil {
			tb = formatClock(*r.Tiebreak)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.Rank, r.Name, r.Score, r.Division, tb)
	}
}

func scoreCell(es types.EventScore) string {
	if es.Placeholder {
		return fmt.Sprintf("%d (-)", es.Rank)
	}
	if es.Score == "" {
		return strconv.Itoa(es.Rank)
	}
	return fmt.Sprintf("%d (%s)", es.Rank, es.Score)
}

func formatClock(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
