package store

// Source records where a snapshot's data came from.
type Source string

const (
	SourceSheets   Source = "sheets"
	SourceFallback Source = "fallback-file"
	SourceEmpty    Source = "empty"
)

// Snapshot is the full set of business data used to answer user queries.
// It is replaced wholesale on every refresh and never mutated in place, so
// readers can hold it without synchronization. String fields are always
// present (empty, not missing) so formatting never has to nil-check.
type Snapshot struct {
	Hours      string     `json:"hours"`
	Address    string     `json:"address"`
	MapURL     string     `json:"mapUrl"`
	BookingURL string     `json:"bookingUrl"`
	FAQ        []FAQEntry `json:"faq"`
	Menu       []MenuItem `json:"menu"`
	Campaigns  []Campaign `json:"campaigns"`
	Source     Source     `json:"source,omitempty"`
}

type FAQEntry struct {
	Q string `json:"q"`
	A string `json:"a"`
}

type MenuItem struct {
	Name  string `json:"name"`
	Desc  string `json:"desc"`
	Price string `json:"price"`
}

type Campaign struct {
	Title   string `json:"title"`
	Details string `json:"details"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// Empty returns the zero-value snapshot served when both the remote source
// and the fallback file are unavailable.
func Empty() Snapshot {
	return Snapshot{Source: SourceEmpty}
}
