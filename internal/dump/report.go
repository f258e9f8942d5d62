package dump

// Reporter receives progress callbacks from indexing and export. It exists
// so the core stays decoupled from any UI: a terminal front end can drive
// progress bars from it while tests and library callers pass nothing.
//
// Implementations must be safe for concurrent use when distinct tables
// are exported in parallel.
type Reporter interface {
	// IndexProgress reports raw bytes consumed while indexing. total is 0
	// when the input size is unknown.
	IndexProgress(bytesRead, total int64)

	// TableStart announces that a table's export began, with the number of
	// INSERT statements about to be processed.
	TableStart(table string, statements int)

	// StatementDone reports that done of total INSERT statements for the
	// table have been processed.
	StatementDone(table string, done, total int)
}

// NopReporter discards all progress callbacks. It is the default when a
// Parser is constructed without a Reporter.
type NopReporter struct{}

func (NopReporter) IndexProgress(int64, int64)     {}
func (NopReporter) TableStart(string, int)         {}
func (NopReporter) StatementDone(string, int, int) {}
