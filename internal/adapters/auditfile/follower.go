package auditfile

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/qbit-labs/qproc/internal/domain"
	"github.com/qbit-labs/qproc/pkg/log"
)

// Follower tails an NDJSON audit file and delivers each appended entry in
// order. It delivers entries already present when it starts, then follows
// new appends via fsnotify. Partial lines (a record caught mid-write) are
// buffered until the trailing newline arrives.
type Follower struct {
	path    string
	logger  log.Logger
	entries chan domain.AuditEntry
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewFollower creates a follower for the audit file at path. The file does
// not need to exist yet; delivery starts when it appears.
func NewFollower(path string, logger log.Logger) *Follower {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Follower{
		path:    path,
		logger:  logger,
		entries: make(chan domain.AuditEntry, 64),
	}
}

// Entries returns the delivery channel. It is closed when the follower stops.
func (f *Follower) Entries() <-chan domain.AuditEntry {
	return f.entries
}

// Start begins watching the audit file. It returns once the watch is
// established; delivery happens on a background goroutine until ctx is
// canceled or Stop is called.
func (f *Follower) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create audit watcher: %w", err)
	}
	// Watch the directory: the file itself may not exist yet, and watching
	// the parent survives rotation.
	if err := watcher.Add(filepath.Dir(f.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch audit directory: %w", err)
	}

	file, err := os.Open(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			watcher.Close()
			return fmt.Errorf("open audit log: %w", err)
		}
		file = nil
	}

	ctx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.wg.Add(1)
	go f.loop(ctx, watcher, file)
	return nil
}

// Stop cancels the watch and waits for the delivery goroutine to finish.
func (f *Follower) Stop() {
	if f.cancel != nil {
		f.cancel()
	}
	f.wg.Wait()
}

func (f *Follower) loop(ctx context.Context, watcher *fsnotify.Watcher, file *os.File) {
	defer f.wg.Done()
	defer watcher.Close()
	defer close(f.entries)
	defer func() {
		if file != nil {
			file.Close()
		}
	}()

	var (
		reader  *bufio.Reader
		pending []byte
	)
	if file != nil {
		reader = bufio.NewReader(file)
		if !f.drain(ctx, reader, &pending) {
			return
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(f.path) {
				continue
			}
			if file == nil && ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				opened, err := os.Open(f.path)
				if err != nil {
					f.logger.Warn("audit log open failed", log.Err(err))
					continue
				}
				file = opened
				reader = bufio.NewReader(file)
			}
			if reader != nil && ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				if !f.drain(ctx, reader, &pending) {
					return
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			f.logger.Warn("audit watcher error", log.Err(err))
		}
	}
}

// drain reads complete lines until EOF, delivering one entry per line.
// Returns false when ctx is canceled.
func (f *Follower) drain(ctx context.Context, reader *bufio.Reader, pending *[]byte) bool {
	for {
		chunk, err := reader.ReadBytes('\n')
		*pending = append(*pending, chunk...)
		if err != nil {
			// io.EOF: an incomplete trailing line stays pending.
			return true
		}
		line := *pending
		*pending = nil

		var entry domain.AuditEntry
		if uerr := json.Unmarshal(line, &entry); uerr != nil {
			f.logger.Warn("skipping malformed audit line", log.Err(uerr))
			continue
		}
		select {
		case f.entries <- entry:
		case <-ctx.Done():
			return false
		}
	}
}
