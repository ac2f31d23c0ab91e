// Package opml imports and exports job-board source lists as OPML.
package opml

import (
	"encoding/xml"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/bryan-buckman/jobdesk/internal/model"
)

type document struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    struct {
		Title       string `xml:"title,omitempty"`
		DateCreated string `xml:"dateCreated,omitempty"`
	} `xml:"head"`
	Boards []board `xml:"body>outline"`
}

// board is either a job board (it has a feed URL) or a folder of boards.
type board struct {
	Text    string  `xml:"text,attr"`
	Title   string  `xml:"title,attr,omitempty"`
	Type    string  `xml:"type,attr,omitempty"`
	FeedURL string  `xml:"xmlUrl,attr,omitempty"`
	Boards  []board `xml:"outline,omitempty"`
}

// Entry is one job board together with the folders it was filed under.
type Entry struct {
	Folders []string // e.g. ["Remote", "Engineering"]
	Title   string
	URL     string
}

// Group is the folder path joined with "/", the form job sources store.
func (e Entry) Group() string {
	return strings.Join(e.Folders, "/")
}

// collect appends the boards under b to out. A board's title attribute wins
// over its text; for folders it is the other way round.
func (b board) collect(folders []string, out []Entry) []Entry {
	if b.FeedURL != "" {
		return append(out, Entry{
			Folders: slices.Clone(folders),
			Title:   cmpOr(b.Title, b.Text),
			URL:     strings.TrimSpace(b.FeedURL),
		})
	}
	if len(b.Boards) == 0 {
		return out
	}
	folders = append(slices.Clip(folders), cmpOr(b.Text, b.Title))
	for _, child := range b.Boards {
		out = child.collect(folders, out)
	}
	return out
}

func cmpOr(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// Parse reads an OPML document and returns its job boards in document order.
// Empty folders are skipped.
func Parse(r io.Reader) ([]Entry, error) {
	var doc document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode opml: %w", err)
	}
	var entries []Entry
	for _, b := range doc.Boards {
		entries = b.collect(nil, entries)
	}
	return entries, nil
}

// Export renders sources as OPML. Sources sharing a group are nested under
// one folder, in the order the groups first appear.
func Export(title string, sources []model.JobSource, now time.Time) ([]byte, error) {
	doc := document{Version: "2.0"}
	doc.Head.Title = title
	doc.Head.DateCreated = now.Format(time.RFC1123Z)

	folders := make(map[string]int)
	for _, s := range sources {
		b := board{Text: s.Title, Title: s.Title, Type: "rss", FeedURL: s.URL}
		if s.Group == "" {
			doc.Boards = append(doc.Boards, b)
			continue
		}
		i, ok := folders[s.Group]
		if !ok {
			i = len(doc.Boards)
			folders[s.Group] = i
			doc.Boards = append(doc.Boards, board{Text: s.Group, Title: s.Group})
		}
		doc.Boards[i].Boards = append(doc.Boards[i].Boards, b)
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode opml: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}
