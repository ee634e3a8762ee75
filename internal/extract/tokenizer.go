package extract

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Category classifies a markup event for the table state machine.
type Category int

const (
	Other Category = iota
	TableOpen
	TableClose
	RowOpen
	RowClose
	CellOpen
	CellClose
	Text
	EOF
)

var categoryNames = [...]string{
	Other:      "other",
	TableOpen:  "table-open",
	TableClose: "table-close",
	RowOpen:    "row-open",
	RowClose:   "row-close",
	CellOpen:   "cell-open",
	CellClose:  "cell-close",
	Text:       "text",
	EOF:        "eof",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[c]
}

// Event is a single classified token. Text is only set for Text events.
type Event struct {
	Kind Category
	Text string
}

// Tokenizer turns markup into a stream of classified events. It does not
// build a tree; entity decoding is whatever x/net/html applies to text.
type Tokenizer struct {
	z       *html.Tokenizer
	pending *Event
	done    bool
}

// NewTokenizer returns a Tokenizer reading from r.
func NewTokenizer(r io.Reader) *Tokenizer {
	return &Tokenizer{z: html.NewTokenizer(r)}
}

// Next returns the next event. Once EOF has been returned every further
// call returns EOF again.
func (t *Tokenizer) Next() Event {
	if t.pending != nil {
		ev := *t.pending
		t.pending = nil
		return ev
	}
	if t.done {
		return Event{Kind: EOF}
	}
	for {
		switch t.z.Next() {
		case html.ErrorToken:
			// io.EOF or a tokenizer limit; either way the input is over.
			t.done = true
			return Event{Kind: EOF}
		case html.TextToken:
			return Event{Kind: Text, Text: string(t.z.Text())}
		case html.StartTagToken:
			name, _ := t.z.TagName()
			return Event{Kind: openCategory(name)}
		case html.SelfClosingTagToken:
			// <td/> behaves like <td></td>.
			name, _ := t.z.TagName()
			open := openCategory(name)
			if open != Other {
				t.pending = &Event{Kind: closeCategory(name)}
			}
			return Event{Kind: open}
		case html.EndTagToken:
			name, _ := t.z.TagName()
			return Event{Kind: closeCategory(name)}
		default:
			// comments and doctype carry no table content
			continue
		}
	}
}

func openCategory(name []byte) Category {
	switch strings.ToLower(string(name)) {
	case "table":
		return TableOpen
	case "tr":
		return RowOpen
	case "td", "th":
		return CellOpen
	}
	return Other
}

func closeCategory(name []byte) Category {
	switch strings.ToLower(string(name)) {
	case "table":
		return TableClose
	case "tr":
		return RowClose
	case "td", "th":
		return CellClose
	}
	return Other
}
