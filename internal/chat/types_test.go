package chat

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		if id == "" {
			t.Fatal("NewID() returned empty string")
		}
		if seen[id] {
			t.Fatalf("NewID() produced duplicate %q", id)
		}
		seen[id] = true
	}
}

func TestMessage_Validate(t *testing.T) {
	sender := Sender{ID: "me", Name: "You"}

	msg := NewText(ChatFamily, sender, "hello")
	if err := msg.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	empty := NewText(ChatFamily, sender, "")
	if err := empty.Validate(); err != ErrEmptyMessage {
		t.Errorf("Validate() = %v, want ErrEmptyMessage", err)
	}

	noChat := NewText("", sender, "hi")
	if err := noChat.Validate(); err != ErrNoChat {
		t.Errorf("Validate() = %v, want ErrNoChat", err)
	}
}

// TestMessage_WireRoundTrip checks no field is lost through the wire shape
// for every message kind.
func TestMessage_WireRoundTrip(t *testing.T) {
	ts := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	sender := Sender{ID: "mom", Name: "Mom", Avatar: "https://example.com/mom.png"}

	cases := []Message{
		{ID: "1-0001", ChatID: ChatFamily, Sender: sender, Kind: KindText, Content: "dinner at 7", Timestamp: ts},
		{ID: "1-0002", ChatID: "dad", Sender: sender, Kind: KindImage, Content: "blob:abc", FileName: "pic.png", MediaType: "image/png", Timestamp: ts},
		{ID: "1-0003", ChatID: "sara", Sender: sender, Kind: KindFile, Content: "blob:def", FileName: "notes.pdf", MediaType: "application/pdf", Timestamp: ts},
		{ID: "1-0004", ChatID: ChatFamily, Sender: sender, Kind: KindAudio, Content: "blob:ghi", FileName: "voice-1.webm", MediaType: "audio/webm", Timestamp: ts},
	}

	for _, want := range cases {
		data, err := json.Marshal(want)
		if err != nil {
			t.Fatalf("marshal %s: %v", want.Kind, err)
		}
		var got Message
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal %s: %v", want.Kind, err)
		}
		if !got.Timestamp.Equal(want.Timestamp) {
			t.Errorf("%s: timestamp = %v, want %v", want.Kind, got.Timestamp, want.Timestamp)
		}
		got.Timestamp = want.Timestamp
		if got != want {
			t.Errorf("%s: round trip mismatch\n got %+v\nwant %+v", want.Kind, got, want)
		}
	}
}

func TestMessage_IsMedia(t *testing.T) {
	if (Message{Kind: KindText}).IsMedia() {
		t.Error("text message reported as media")
	}
	for _, k := range []Kind{KindImage, KindFile, KindAudio} {
		if !(Message{Kind: k}).IsMedia() {
			t.Errorf("%s message not reported as media", k)
		}
	}
}

func TestDedup(t *testing.T) {
	d := NewDedup(time.Minute)

	if d.Seen("a") {
		t.Error("first Seen(a) = true, want false")
	}
	if !d.Seen("a") {
		t.Error("second Seen(a) = false, want true")
	}
	if d.Seen("b") {
		t.Error("first Seen(b) = true, want false")
	}
	if d.Seen("") {
		t.Error("Seen(\"\") = true, empty IDs must never dedup")
	}
}

func TestDedup_Close(t *testing.T) {
	d := NewDedup(10 * time.Millisecond)
	d.Seen("a")

	d.Close()
	d.Close() // idempotent

	// The cache still answers after the cleanup loop has stopped.
	if !d.Seen("a") {
		t.Error("Seen(a) = false after Close, want true")
	}
	if d.Seen("b") {
		t.Error("first Seen(b) = true after Close, want false")
	}
}
