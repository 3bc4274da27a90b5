package media

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/famichat/famichat/internal/chat"
)

var (
	// ErrPermissionDenied is what a Source open reports when the OS or
	// browser refuses microphone access. Recoverable: show a notice,
	// produce no message.
	ErrPermissionDenied = errors.New("media: microphone access denied")

	ErrAlreadyRecording = errors.New("media: recording already in progress")
	ErrNotRecording     = errors.New("media: no recording in progress")
)

// Source is a live audio capture stream. Chunks yields encoded audio until
// the source is closed; Close stops capture and lets Chunks drain.
type Source interface {
	Chunks() <-chan []byte
	Close() error
}

// OpenFunc opens the microphone. It may fail with ErrPermissionDenied.
type OpenFunc func() (Source, error)

// Recorder brackets one microphone capture session at a time. Recording is
// modal: Start while active is an error, so the caller can keep the UI to
// a single stop affordance.
type Recorder struct {
	blobs *BlobStore

	mu      sync.Mutex
	active  bool
	src     Source
	chunks  [][]byte
	drained chan struct{}
}

func NewRecorder(blobs *BlobStore) *Recorder {
	return &Recorder{blobs: blobs}
}

// Start opens the source and begins buffering chunks. On open failure the
// recorder state is untouched and the error surfaces to the caller.
func (r *Recorder) Start(open OpenFunc) error {
	r.mu.Lock()
	if r.active {
		r.mu.Unlock()
		return ErrAlreadyRecording
	}
	r.active = true
	r.mu.Unlock()

	src, err := open()
	if err != nil {
		r.mu.Lock()
		r.active = false
		r.mu.Unlock()
		return fmt.Errorf("open microphone: %w", err)
	}

	r.mu.Lock()
	r.src = src
	r.chunks = nil
	r.drained = make(chan struct{})
	r.mu.Unlock()

	go func() {
		for chunk := range src.Chunks() {
			r.mu.Lock()
			r.chunks = append(r.chunks, chunk)
			r.mu.Unlock()
		}
		close(r.drained)
	}()

	return nil
}

// Active reports whether a capture session is in progress.
func (r *Recorder) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Stop closes the source, flushes everything buffered so far (stopping
// never discards audio), and finalizes the chunks into a single clip.
// A session with zero captured chunks still yields a valid, empty clip.
func (r *Recorder) Stop() (Draft, error) {
	r.mu.Lock()
	if !r.active {
		r.mu.Unlock()
		return Draft{}, ErrNotRecording
	}
	src := r.src
	drained := r.drained
	r.mu.Unlock()

	src.Close()
	<-drained

	r.mu.Lock()
	clip := make([]byte, 0)
	for _, chunk := range r.chunks {
		clip = append(clip, chunk...)
	}
	r.active = false
	r.src = nil
	r.chunks = nil
	r.mu.Unlock()

	return Draft{
		Kind:       chat.KindAudio,
		ContentRef: r.blobs.Put(clip),
		FileName:   fmt.Sprintf("voice-%d.webm", time.Now().UnixMilli()),
		MediaType:  "audio/webm",
	}, nil
}
