package internal

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const gibberishChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// DemoState is where the demo screen currently is
type DemoState int

const (
	DemoIdle DemoState = iota
	DemoPending
	DemoUploading
	DemoUploaded
	DemoSearched
)

func (s DemoState) String() string {
	switch s {
	case DemoIdle:
		return "idle"
	case DemoPending:
		return "pending"
	case DemoUploading:
		return "uploading"
	case DemoUploaded:
		return "uploaded"
	case DemoSearched:
		return "searched"
	default:
		return "unknown"
	}
}

// DemoDocument is a locally simulated upload
type DemoDocument struct {
	ID      string
	Type    string // "File" or "Text"
	Content string
	Date    string
}

// Item converts the document to a result row
func (d DemoDocument) Item() ResultItem {
	return ResultItem{Type: d.Type, Content: d.Content, Date: d.Date}
}

// DemoFlow simulates upload and search without a backend and shows what an
// observer without the key would see.
type DemoFlow struct {
	step     int
	interval time.Duration
	guard    *Guard
	now      func() time.Time
	intn     func(n int) int

	mu          sync.Mutex
	pending     *PendingSet
	text        string
	docs        []DemoDocument
	query       string
	hasSearched bool
	uploading   bool
	lastErr     string

	OnProgress func(percent int)
}

// NewDemoFlow creates an empty demo
func NewDemoFlow(cfg *Config) *DemoFlow {
	return &DemoFlow{
		step:     cfg.Progress.Step,
		interval: cfg.Progress.DemoInterval,
		guard:    NewGuard(PolicyReject),
		now:      time.Now,
		intn:     rand.IntN,
		pending:  NewPendingSet(),
	}
}

// State derives the current state from the screen data
func (d *DemoFlow) State() DemoState {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch {
	case d.uploading:
		return DemoUploading
	case d.hasSearched:
		return DemoSearched
	case len(d.docs) > 0:
		return DemoUploaded
	case d.pending.Len() > 0 || strings.TrimSpace(d.text) != "":
		return DemoPending
	default:
		return DemoIdle
	}
}

// SelectFiles adds files to the pending set, same rules as the real upload
func (d *DemoFlow) SelectFiles(paths ...string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastErr = ""
	err := d.pending.AddPaths(paths...)
	if err != nil {
		d.lastErr = err.Error()
	}
	return err
}

// AddFile adds an already inspected file
func (d *DemoFlow) AddFile(f PendingFile) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending.Add(f)
}

// RemoveFile drops a pending file by name
func (d *DemoFlow) RemoveFile(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending.Remove(name)
}

// SetText sets the pasted text
func (d *DemoFlow) SetText(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.text = text
}

// LastError returns the message currently shown, if any
func (d *DemoFlow) LastError() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastErr
}

// Documents returns every simulated upload so far
func (d *DemoFlow) Documents() []DemoDocument {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]DemoDocument, len(d.docs))
	copy(out, d.docs)
	return out
}

// Upload runs the simulated progress timer and, once it reaches 100%, turns
// the pending files and text into documents. Canceling ctx aborts without adding anything.
func (d *DemoFlow) Upload(ctx context.Context) ([]DemoDocument, error) {
	var added []DemoDocument
	err := d.guard.Run(ctx, func(ctx context.Context) error {
		d.mu.Lock()
		if d.pending.Len() == 0 && strings.TrimSpace(d.text) == "" {
			d.lastErr = "Please upload a file(s) or paste some text first!"
			d.mu.Unlock()
			return &ValidationError{Msg: "nothing to upload"}
		}
		d.lastErr = ""
		d.uploading = true
		d.mu.Unlock()

		err := RunStepProgress(ctx, d.step, d.interval, d.OnProgress)

		d.mu.Lock()
		defer d.mu.Unlock()
		d.uploading = false
		if err != nil {
			return err
		}

		date := Today(d.now())
		for _, name := range d.pending.Names() {
			added = append(added, DemoDocument{ID: uuid.NewString(), Type: "File", Content: name, Date: date})
		}
		if text := strings.TrimSpace(d.text); text != "" {
			added = append(added, DemoDocument{ID: uuid.NewString(), Type: "Text", Content: text, Date: date})
		}
		d.docs = append(d.docs, added...)
		d.pending.Clear()
		d.text = ""
		LogDebug("Simulated upload of %d document(s)", len(added))
		return nil
	})
	return added, err
}

// Search filters the simulated documents by case-insensitive substring.
// An empty query returns them all.
func (d *DemoFlow) Search(query string) ([]ResultItem, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.docs) == 0 {
		d.lastErr = ErrNoDocuments.Error()
		return nil, ErrNoDocuments
	}
	d.lastErr = ""
	d.query = query
	d.hasSearched = true
	return d.resultsLocked(), nil
}

// Results returns the filtered documents of the last search
func (d *DemoFlow) Results() []ResultItem {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.resultsLocked()
}

func (d *DemoFlow) resultsLocked() []ResultItem {
	if !d.hasSearched {
		return nil
	}
	var out []ResultItem
	q := strings.TrimSpace(d.query)
	for _, doc := range d.docs {
		if q == "" || ContainsFold(doc.Content, d.query) {
			out = append(out, doc.Item())
		}
	}
	return out
}

// UserView renders the results verbatim with the query marked
func (d *DemoFlow) UserView(mark func(string) string) []string {
	d.mu.Lock()
	query := d.query
	results := d.resultsLocked()
	d.mu.Unlock()

	lines := make([]string, len(results))
	for i, r := range results {
		lines[i] = r.Type + ": " + Highlight(r.Content, query, mark)
	}
	return lines
}

// AttackerView renders one random string per result, as long as its content.
// The strings are generated on every call and never stored.
func (d *DemoFlow) AttackerView() []string {
	results := d.Results()
	lines := make([]string, len(results))
	for i, r := range results {
		lines[i] = d.gibberish(utf8.RuneCountInString(r.Content))
	}
	return lines
}

func (d *DemoFlow) gibberish(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(gibberishChars[d.intn(len(gibberishChars))])
	}
	return b.String()
}
