package sheets

import "github.com/saltnbase/okami/internal/store"

// buildSnapshot turns raw sheet rows into a snapshot. Rows with an empty
// first column are dropped; missing trailing columns default to "".
func buildSnapshot(settings, faq, menu, campaigns [][]string) store.Snapshot {
	kv := make(map[string]string, len(settings))
	for _, row := range settings {
		if cell(row, 0) == "" {
			continue
		}
		kv[cell(row, 0)] = cell(row, 1)
	}

	snap := store.Snapshot{
		Hours:      kv["Hours"],
		Address:    kv["Address"],
		MapURL:     kv["MapUrl"],
		BookingURL: kv["BookingUrl"],
	}

	for _, row := range faq {
		// FAQ rows need both a question and an answer to be useful.
		if cell(row, 0) == "" || cell(row, 1) == "" {
			continue
		}
		snap.FAQ = append(snap.FAQ, store.FAQEntry{Q: cell(row, 0), A: cell(row, 1)})
	}

	for _, row := range menu {
		if cell(row, 0) == "" {
			continue
		}
		snap.Menu = append(snap.Menu, store.MenuItem{
			Name:  cell(row, 0),
			Desc:  cell(row, 1),
			Price: cell(row, 2),
		})
	}

	for _, row := range campaigns {
		if cell(row, 0) == "" {
			continue
		}
		snap.Campaigns = append(snap.Campaigns, store.Campaign{
			Title:   cell(row, 0),
			Details: cell(row, 1),
			Start:   cell(row, 2),
			End:     cell(row, 3),
		})
	}

	return snap
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
