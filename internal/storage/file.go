package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/yourname/sleeprelay/internal"
)

// FileJournal keeps events in memory, newest first, and writes them to a JSON file
// from a debounced background worker.
type FileJournal struct {
	events       []*internal.RelayEvent // sorted descending by OccurredAt
	mu           sync.RWMutex
	file         string
	saveChan     chan struct{}
	shutdownChan chan struct{}
	done         chan struct{}
	closeOnce    sync.Once
	saveDelay    time.Duration
	logger       internal.Logger
}

func NewFileJournal(file string, logger internal.Logger) (*FileJournal, error) {
	return newFileJournal(file, 500*time.Millisecond, logger)
}

func newFileJournal(file string, delay time.Duration, logger internal.Logger) (*FileJournal, error) {
	j := &FileJournal{
		file:         file,
		saveChan:     make(chan struct{}, 1),
		shutdownChan: make(chan struct{}),
		done:         make(chan struct{}),
		saveDelay:    delay,
		logger:       logger,
	}
	if dir := filepath.Dir(file); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	if err := j.load(); err != nil {
		logger.Errorf("storage: failed to load journal: %v", err)
		return nil, err
	}

	go j.saveWorker()

	return j, nil
}

func (j *FileJournal) load() error {
	file, err := os.Open(j.file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	var events []*internal.RelayEvent
	if err := json.NewDecoder(file).Decode(&events); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	sort.SliceStable(events, func(a, b int) bool {
		return events[a].OccurredAt.After(events[b].OccurredAt)
	})

	j.mu.Lock()
	j.events = events
	j.mu.Unlock()
	return nil
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

func (j *FileJournal) save() error {
	j.mu.RLock()
	events := make([]*internal.RelayEvent, len(j.events))
	copy(events, j.events)
	j.mu.RUnlock()

	return atomicWriteFileJSON(j.file, events)
}

func (j *FileJournal) saveWorker() {
	defer close(j.done)
	timer := time.NewTimer(j.saveDelay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-j.saveChan:
			timer.Reset(j.saveDelay)
		case <-timer.C:
			if err := j.save(); err != nil {
				j.logger.Errorf("storage: error saving journal: %v", err)
			}
		case <-j.shutdownChan:
			return
		}
	}
}

// Close stops the worker and flushes pending events synchronously.
func (j *FileJournal) Close() error {
	var err error
	j.closeOnce.Do(func() {
		close(j.shutdownChan)
		<-j.done
		err = j.save()
	})
	return err
}

func (j *FileJournal) Record(ctx context.Context, ev *internal.RelayEvent) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	idx := sort.Search(len(j.events), func(i int) bool {
		return !j.events[i].OccurredAt.After(ev.OccurredAt)
	})
	j.events = append(j.events, nil)
	copy(j.events[idx+1:], j.events[idx:])
	j.events[idx] = ev

	select {
	case j.saveChan <- struct{}{}:
	default:
	}
	return nil
}

func (j *FileJournal) List(ctx context.Context, limit int) ([]internal.RelayEvent, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if limit <= 0 || limit > len(j.events) {
		limit = len(j.events)
	}
	out := make([]internal.RelayEvent, limit)
	for i := 0; i < limit; i++ {
		out[i] = *j.events[i]
	}
	return out, nil
}

var _ EventJournal = (*FileJournal)(nil)
