package tuitest

import (
	"bytes"
	"io"
)

// terminalReply answers a query Bubble Tea and termenv send while probing the
// terminal. Without an answer they block until their own timeout.
type terminalReply struct {
	query []byte
	reply []byte
}

var terminalReplies = []terminalReply{
	{query: []byte("\x1b[6n"), reply: []byte("\x1b[1;1R")},
	{query: []byte("\x1b[c"), reply: []byte("\x1b[?62;22c")},
	{query: []byte("\x1b]10;?\x07"), reply: []byte("\x1b]10;rgb:cccc/cccc/cccc\x07")},
	{query: []byte("\x1b]10;?\x1b\\"), reply: []byte("\x1b]10;rgb:cccc/cccc/cccc\x1b\\")},
	{query: []byte("\x1b]11;?\x07"), reply: []byte("\x1b]11;rgb:0000/0000/0000\x07")},
	{query: []byte("\x1b]11;?\x1b\\"), reply: []byte("\x1b]11;rgb:0000/0000/0000\x1b\\")},
}

type terminalResponder struct {
	w   io.Writer
	buf []byte
}

func newTerminalResponder(w io.Writer) *terminalResponder {
	return &terminalResponder{w: w, buf: make([]byte, 0, 128)}
}

// Process feeds program output to the responder and writes a reply for every
// complete query seen so far.
func (tr *terminalResponder) Process(chunk []byte) {
	tr.buf = append(tr.buf, chunk...)
	for tr.answerNext() {
	}
	// Queries can span reads.
	if len(tr.buf) > 256 {
		tr.buf = tr.buf[len(tr.buf)-64:]
	}
}

// answerNext replies to the earliest pending query so replies keep the order
// the program asked in.
func (tr *terminalResponder) answerNext() bool {
	first, at := -1, len(tr.buf)
	for i, r := range terminalReplies {
		if idx := bytes.Index(tr.buf, r.query); idx >= 0 && idx < at {
			first, at = i, idx
		}
	}
	if first < 0 {
		return false
	}
	r := terminalReplies[first]
	tr.buf = tr.buf[at+len(r.query):]
	_, _ = tr.w.Write(r.reply)
	return true
}
