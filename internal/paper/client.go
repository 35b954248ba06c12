package paper

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed/atom"

	"thumbcraft/pkg/httputil"
)

const DefaultBaseURL = "https://export.arxiv.org/api/query"

var idPattern = regexp.MustCompile(`arxiv\.org/(?:abs|pdf)/([\w.-]+)`)

type Paper struct {
	ID        string
	Title     string
	Summary   string
	Authors   []string
	Published time.Time
	AbsURL    string
	PDFURL    string
}

type Client struct {
	baseURL    string
	downloader *httputil.Downloader
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		downloader: httputil.NewDownloader(httpClient),
	}
}

// ExtractID returns the arXiv identifier in an abs or pdf link. A trailing
// .pdf extension is not part of the identifier.
func ExtractID(link string) (string, bool) {
	m := idPattern.FindStringSubmatch(link)
	if m == nil {
		return "", false
	}
	return strings.TrimSuffix(m[1], ".pdf"), true
}

// Lookup fetches the metadata of the paper linked by link. A link that does
// not point at arXiv returns a nil paper without a request.
func (c *Client) Lookup(ctx context.Context, link string) (*Paper, error) {
	id, ok := ExtractID(link)
	if !ok {
		return nil, nil
	}

	q := url.Values{}
	q.Set("id_list", id)
	data, err := c.downloader.Download(ctx, c.baseURL+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("query arxiv: %w", err)
	}

	f, err := (&atom.Parser{}).Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse arxiv response: %w", err)
	}

	if len(f.Entries) == 0 {
		return nil, fmt.Errorf("paper %s not found", id)
	}
	e := f.Entries[0]
	if strings.Contains(e.ID, "/api/errors") {
		return nil, fmt.Errorf("arxiv rejected %s: %s", id, collapse(e.Summary))
	}

	return fromEntry(e), nil
}

func fromEntry(e *atom.Entry) *Paper {
	p := &Paper{
		ID:      shortID(e.ID),
		Title:   collapse(e.Title),
		Summary: collapse(e.Summary),
		AbsURL:  e.ID,
	}

	if e.PublishedParsed != nil {
		p.Published = e.PublishedParsed.UTC()
	}
	for _, a := range e.Authors {
		if a != nil {
			p.Authors = append(p.Authors, a.Name)
		}
	}
	for _, l := range e.Links {
		if l == nil {
			continue
		}
		switch {
		case l.Title == "pdf" || l.Type == "application/pdf":
			p.PDFURL = l.Href
		case l.Rel == "alternate" && p.AbsURL == "":
			p.AbsURL = l.Href
		}
	}
	return p
}

func shortID(entryID string) string {
	if i := strings.Index(entryID, "/abs/"); i >= 0 {
		return entryID[i+len("/abs/"):]
	}
	return entryID
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
