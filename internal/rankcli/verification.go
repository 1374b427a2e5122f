package rankcli

import (
	"fmt"
	"strings"

	"github.com/okian/wodboard/internal/domain/types"
)

// compareBoards reports every difference between a locally computed board and
// the one a server returned. Snapshot ids and timestamps are not compared.
func compareBoards(local, remote types.Leaderboard) error {
	var diffs []string

	if strings.Join(local.Events, ",") != strings.Join(remote.Events, ",") {
		diffs = append(diffs, fmt.Sprintf("events %v != %v", local.Events, remote.Events))
	}
	if len(local.Standings) != len(remote.Standings) {
		diffs = append(diffs, fmt.Sprintf("%d standings != %d", len(local.Standings), len(remote.Standings)))
	}

	n := min(len(local.Standings), len(remote.Standings))
	for i := 0; i < n; i++ {
		l, r := local.Standings[i], remote.Standings[i]
		if l.Name != r.Name || l.Rank != r.Rank || l.Points != r.Points {
			diffs = append(diffs, fmt.Sprintf("row %d: %s rank %d (%d pts) != %s rank %d (%d pts)",
				i+1, l.Name, l.Rank, l.Points, r.Name, r.Rank, r.Points))
		}
	}

	if len(diffs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s: %s", ErrMismatch, local.Category, strings.Join(diffs, "; "))
}
