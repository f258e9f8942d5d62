package main

import (
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// barReporter renders dump.Reporter callbacks as terminal progress bars:
// one byte-based bar for the indexing scan and, when showTables is set,
// one statement-based bar per exported table.
type barReporter struct {
	w          io.Writer
	showTables bool

	mu       sync.Mutex
	indexBar *progressbar.ProgressBar
	tableBar map[string]*progressbar.ProgressBar
}

func newBarReporter(w io.Writer, showTables bool) *barReporter {
	return &barReporter{
		w:          w,
		showTables: showTables,
		tableBar:   make(map[string]*progressbar.ProgressBar),
	}
}

func (b *barReporter) IndexProgress(bytesRead, total int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.indexBar == nil {
		max := total
		if max <= 0 {
			max = -1 // spinner when the input size is unknown
		}
		b.indexBar = progressbar.NewOptions64(max,
			progressbar.OptionSetDescription("Indexing file"),
			progressbar.OptionSetWriter(b.w),
			progressbar.OptionShowBytes(true),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}
	_ = b.indexBar.Set64(bytesRead)
	if total > 0 && bytesRead >= total {
		_ = b.indexBar.Finish()
	}
}

func (b *barReporter) TableStart(table string, statements int) {
	if !b.showTables {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tableBar[table] = progressbar.NewOptions(statements,
		progressbar.OptionSetDescription("Parsing "+table),
		progressbar.OptionSetWriter(b.w),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func (b *barReporter) StatementDone(table string, done, total int) {
	if !b.showTables {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	bar, ok := b.tableBar[table]
	if !ok {
		return
	}
	_ = bar.Set(done)
	if done >= total {
		_ = bar.Finish()
		delete(b.tableBar, table)
	}
}
