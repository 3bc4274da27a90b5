package media

import (
	"errors"
	"strings"
	"testing"

	"github.com/famichat/famichat/internal/chat"
)

func TestBlobStore_PutGet(t *testing.T) {
	blobs := NewBlobStore()

	ref := blobs.Put([]byte("payload"))
	if !strings.HasPrefix(ref, "blob:") {
		t.Errorf("ref = %q, want blob: prefix", ref)
	}

	data, err := blobs.Get(ref)
	if err != nil {
		t.Fatalf("Get(%q): %v", ref, err)
	}
	if string(data) != "payload" {
		t.Errorf("Get = %q, want payload", data)
	}

	if _, err := blobs.Get("blob:from-another-session"); err != ErrBlobNotFound {
		t.Errorf("Get(stale ref) = %v, want ErrBlobNotFound", err)
	}
}

func TestAttachFile_Classification(t *testing.T) {
	blobs := NewBlobStore()

	cases := []struct {
		name      string
		mediaType string
		want      chat.Kind
	}{
		{"photo.png", "image/png", chat.KindImage},
		{"selfie.jpg", "image/jpeg", chat.KindImage},
		{"notes.pdf", "application/pdf", chat.KindFile},
		{"unknown.bin", "", chat.KindFile},
	}

	for _, tc := range cases {
		d, err := AttachFile(blobs, tc.name, tc.mediaType, []byte("bytes"))
		if err != nil {
			t.Fatalf("AttachFile(%s): %v", tc.name, err)
		}
		if d.Kind != tc.want {
			t.Errorf("%s: kind = %q, want %q", tc.name, d.Kind, tc.want)
		}
		if d.FileName != tc.name {
			t.Errorf("%s: fileName = %q, want original name", tc.name, d.FileName)
		}
		if d.MediaType != tc.mediaType {
			t.Errorf("%s: mediaType = %q, want %q", tc.name, d.MediaType, tc.mediaType)
		}
		// Content must resolve to the original bytes within this session.
		data, err := blobs.Get(d.ContentRef)
		if err != nil || string(data) != "bytes" {
			t.Errorf("%s: content ref not resolvable: %v", tc.name, err)
		}
	}
}

func TestAttachFile_Rejected(t *testing.T) {
	blobs := NewBlobStore()
	if _, err := AttachFile(blobs, "", "image/png", []byte("x")); err != ErrNoFile {
		t.Errorf("empty name: err = %v, want ErrNoFile", err)
	}
	if _, err := AttachFile(blobs, "a.png", "image/png", nil); err != ErrNoFile {
		t.Errorf("nil data: err = %v, want ErrNoFile", err)
	}
}

// fakeMic is a test Source fed by a buffered channel.
type fakeMic struct {
	ch chan []byte
}

func newFakeMic() *fakeMic {
	return &fakeMic{ch: make(chan []byte, 16)}
}

func (m *fakeMic) Chunks() <-chan []byte { return m.ch }

func (m *fakeMic) Close() error {
	close(m.ch)
	return nil
}

func TestRecorder_CaptureAndFinalize(t *testing.T) {
	blobs := NewBlobStore()
	rec := NewRecorder(blobs)

	mic := newFakeMic()
	if err := rec.Start(func() (Source, error) { return mic, nil }); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !rec.Active() {
		t.Fatal("Active() = false during recording")
	}

	mic.ch <- []byte("chunk-1|")
	mic.ch <- []byte("chunk-2|")
	mic.ch <- []byte("chunk-3")

	d, err := rec.Stop()
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if rec.Active() {
		t.Error("Active() = true after Stop")
	}

	if d.Kind != chat.KindAudio {
		t.Errorf("kind = %q, want audio", d.Kind)
	}
	if d.MediaType != "audio/webm" {
		t.Errorf("mediaType = %q, want audio/webm", d.MediaType)
	}
	if !strings.HasPrefix(d.FileName, "voice-") || !strings.HasSuffix(d.FileName, ".webm") {
		t.Errorf("fileName = %q, want voice-<ms>.webm", d.FileName)
	}

	clip, err := blobs.Get(d.ContentRef)
	if err != nil {
		t.Fatalf("clip not resolvable: %v", err)
	}
	if string(clip) != "chunk-1|chunk-2|chunk-3" {
		t.Errorf("clip = %q, buffered chunks must be flushed in order", clip)
	}
}

// A started-then-stopped session with no audio still produces a valid draft.
func TestRecorder_EmptyRecording(t *testing.T) {
	blobs := NewBlobStore()
	rec := NewRecorder(blobs)

	mic := newFakeMic()
	if err := rec.Start(func() (Source, error) { return mic, nil }); err != nil {
		t.Fatalf("Start: %v", err)
	}

	d, err := rec.Stop()
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	clip, err := blobs.Get(d.ContentRef)
	if err != nil {
		t.Fatalf("empty clip not resolvable: %v", err)
	}
	if len(clip) != 0 {
		t.Errorf("clip length = %d, want 0", len(clip))
	}
	if d.Kind != chat.KindAudio {
		t.Errorf("kind = %q, want audio", d.Kind)
	}
}

func TestRecorder_Modal(t *testing.T) {
	blobs := NewBlobStore()
	rec := NewRecorder(blobs)

	mic := newFakeMic()
	if err := rec.Start(func() (Source, error) { return mic, nil }); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := rec.Start(func() (Source, error) { return newFakeMic(), nil }); err != ErrAlreadyRecording {
		t.Errorf("second Start = %v, want ErrAlreadyRecording", err)
	}
	if _, err := rec.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if _, err := rec.Stop(); err != ErrNotRecording {
		t.Errorf("second Stop = %v, want ErrNotRecording", err)
	}
}

func TestRecorder_PermissionDenied(t *testing.T) {
	blobs := NewBlobStore()
	rec := NewRecorder(blobs)

	err := rec.Start(func() (Source, error) { return nil, ErrPermissionDenied })
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("Start = %v, want ErrPermissionDenied", err)
	}
	// Denial leaves prior state untouched: not active, next Start works.
	if rec.Active() {
		t.Error("Active() = true after denied open")
	}
	mic := newFakeMic()
	if err := rec.Start(func() (Source, error) { return mic, nil }); err != nil {
		t.Errorf("Start after denial: %v", err)
	}
}
