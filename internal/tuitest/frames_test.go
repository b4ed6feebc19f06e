package tuitest

import (
	"bytes"
	"testing"
)

func TestParseFramesSplitsOnClear(t *testing.T) {
	raw := []byte("\x1b[2J\x1b[H\x1b[1mHome\x1b[0m  News   \r\n\r\n\x1b[2J\x1b[HSport\r\n")
	frames := parseFrames(raw)
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d: %#v", len(frames), frames)
	}
	if frames[0].Plain != "Home  News" {
		t.Fatalf("unexpected first frame %q", frames[0].Plain)
	}
	rec := &Recording{Frames: frames}
	last, ok := rec.FinalFrame()
	if !ok || last.Plain != "Sport" {
		t.Fatalf("unexpected final frame %q", last.Plain)
	}
	if !rec.Contains("News") || rec.Contains("Games") {
		t.Fatal("Contains should search every frame")
	}
	if got, _ := rec.LastFrameContaining("Home"); got.Index != 0 {
		t.Fatalf("expected frame 0, got %d", got.Index)
	}
}

func TestParseFramesWithoutClearKeepsOutput(t *testing.T) {
	frames := parseFrames([]byte("plain output\n"))
	if len(frames) != 1 || frames[0].Plain != "plain output" {
		t.Fatalf("unexpected frames %#v", frames)
	}
	if lines := frames[0].Lines(); len(lines) != 1 {
		t.Fatalf("expected one line, got %d", len(lines))
	}
}

func TestStripANSIRemovesOSC(t *testing.T) {
	if got := stripANSI("\x1b]0;title\x07text\x1b[31m!\x1b[0m"); got != "text!" {
		t.Fatalf("unexpected strip result %q", got)
	}
}

func TestNilRecording(t *testing.T) {
	var rec *Recording
	if _, ok := rec.FinalFrame(); ok {
		t.Fatal("nil recording has no frames")
	}
	if rec.Contains("x") {
		t.Fatal("nil recording contains nothing")
	}
}

func TestTerminalResponderAnswersInOrder(t *testing.T) {
	var out bytes.Buffer
	tr := newTerminalResponder(&out)
	tr.Process([]byte("hello\x1b]11;?\x07world\x1b["))
	tr.Process([]byte("6n"))
	want := "\x1b]11;rgb:0000/0000/0000\x07\x1b[1;1R"
	if out.String() != want {
		t.Fatalf("unexpected replies %q", out.String())
	}

	out.Reset()
	tr.Process([]byte("\x1b[6n\x1b[c"))
	if out.String() != "\x1b[1;1R\x1b[?62;22c" {
		t.Fatalf("expected both queries answered in order, got %q", out.String())
	}
}
