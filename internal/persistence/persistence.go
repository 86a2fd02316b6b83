// Package persistence saves and restores device state across
// restarts. Writes are batched by one store-wide timer: the first
// change after a flush arms it, and when it fires every device changed
// since then is written once from its latest state, so a burst of
// mutations (a multizone animation, say) collapses into one write
// instead of hundreds. There is no timer per device, and later changes
// do not re-arm the running timer; each
// write lands via a temp-file-then-rename swap so a crash mid-write
// never leaves a half-written state file behind.
package persistence

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/alessio-palumbo/lifx-emulator/internal/devicestate"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is the delay between the first unsaved change of any
// device and the flush that writes every pending device.
const DefaultDebounce = 100 * time.Millisecond

// Store persists device snapshots under a single directory, one JSON
// file per device, named by serial.
type Store struct {
	dir      string
	debounce time.Duration
	log      *logrus.Entry

	mu      sync.Mutex
	pending map[devicestate.Serial]*devicestate.Device
	timer   *time.Timer
	closed  bool
}

// New returns a Store writing under dir, creating it if necessary.
func New(dir string, debounce time.Duration, log *logrus.Entry) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create persistence directory %q", dir)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Store{
		dir:      dir,
		debounce: debounce,
		log:      log,
		pending:  make(map[devicestate.Serial]*devicestate.Device),
	}, nil
}

func (s *Store) path(serial devicestate.Serial) string {
	return filepath.Join(s.dir, serial.String()+".json")
}

// OnChange is a devicestate.Device.OnChange-compatible callback:
// scheduling a debounced save whenever the device mutates. Callers
// pass the owning device along with this hook so the scheduled write
// can read its latest state once the debounce fires.
func (s *Store) OnChange(d *devicestate.Device) func(devicestate.Serial) {
	return func(serial devicestate.Serial) {
		s.schedule(serial, d)
	}
}

func (s *Store) schedule(serial devicestate.Serial, d *devicestate.Device) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.pending[serial] = d
	if s.timer != nil {
		return
	}
	s.timer = time.AfterFunc(s.debounce, s.flush)
}

func (s *Store) flush() {
	s.mu.Lock()
	pending := s.pending
	s.pending = make(map[devicestate.Serial]*devicestate.Device)
	s.timer = nil
	closed := s.closed
	s.mu.Unlock()

	if closed {
		return
	}

	for serial, d := range pending {
		if err := s.writeWithRetry(serial, d.Snapshot()); err != nil {
			s.log.WithError(err).WithField("serial", serial.String()).Error("persisting device state failed")
		}
	}
}

// writeWithRetry makes one attempt, logs and retries once on failure,
// and surfaces the final error to the caller for logging.
func (s *Store) writeWithRetry(serial devicestate.Serial, snap devicestate.Snapshot) error {
	err := s.write(serial, snap)
	if err == nil {
		return nil
	}
	s.log.WithError(err).WithField("serial", serial.String()).Warn("retrying device state write")
	return s.write(serial, snap)
}

// write serializes snap and atomically replaces the device's state
// file: write to a sibling temp file, fsync it, then rename over the
// destination so a reader never observes a partially written file.
func (s *Store) write(serial devicestate.Serial, snap devicestate.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, "marshal device snapshot")
	}

	dest := s.path(serial)
	tmp, err := os.CreateTemp(s.dir, serial.String()+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "create temp state file")
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write temp state file")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "fsync temp state file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp state file")
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return errors.Wrapf(err, "rename %q into place", dest)
	}
	return nil
}

// Load reads a device's last-saved snapshot. It reports ok=false, no
// error, when no state file exists yet for serial.
func (s *Store) Load(serial devicestate.Serial) (snap devicestate.Snapshot, ok bool, err error) {
	data, err := os.ReadFile(s.path(serial))
	if os.IsNotExist(err) {
		return devicestate.Snapshot{}, false, nil
	}
	if err != nil {
		return devicestate.Snapshot{}, false, errors.Wrapf(err, "read state file for %s", serial.String())
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return devicestate.Snapshot{}, false, errors.Wrapf(err, "decode state file for %s", serial.String())
	}
	return snap, true, nil
}

// Flush forces any pending debounced write to happen immediately and
// blocks until it completes. Used in tests and before a clean exit.
func (s *Store) Flush() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	s.flush()
}

// Close stops accepting new scheduled writes and flushes whatever is
// pending. Safe to call once during shutdown.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	for serial, d := range pending {
		if err := s.writeWithRetry(serial, d.Snapshot()); err != nil {
			s.log.WithError(err).WithField("serial", serial.String()).Error("final persist on shutdown failed")
		}
	}
}
