package internal

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// SortOrder orders the locally filtered result list
type SortOrder string

const (
	SortTitleAsc  SortOrder = "title_asc"
	SortTitleDesc SortOrder = "title_desc"
	SortDateAsc   SortOrder = "date_asc"
	SortDateDesc  SortOrder = "date_desc"
)

// SortOrders lists the accepted sort orders, default first
var SortOrders = []SortOrder{SortTitleAsc, SortTitleDesc, SortDateAsc, SortDateDesc}

// ParseSortOrder validates a sort order name
func ParseSortOrder(s string) (SortOrder, error) {
	for _, o := range SortOrders {
		if strings.EqualFold(s, string(o)) {
			return o, nil
		}
	}
	return "", &ValidationError{Msg: fmt.Sprintf("unknown sort order %q", s)}
}

// PrivacyOptions are the labels the privacy filter accepts
var PrivacyOptions = []string{PrivacyPublic, PrivacyConfidential, PrivacyRestricted}

const (
	noAnswer         = "No answer returned"
	queryFailed      = "Query failed"
	unexpectedFailed = "An unexpected error occurred"
)

// FallbackDataset is filtered locally when a search produced no backend result
var FallbackDataset = []ResultItem{
	{Type: "Document", Content: "React Tutorial for Beginners", Privacy: PrivacyPublic, Date: "2024-01-10"},
	{Type: "Document", Content: "Advanced Node.js Techniques", Privacy: PrivacyConfidential, Date: "2023-10-22"},
	{Type: "Image", Content: "React Logo", Privacy: PrivacyPublic, Date: "2022-12-13"},
	{Type: "Image", Content: "Node.js Logo", Privacy: PrivacyRestricted, Date: "2024-05-30"},
	{Type: "Text", Content: "Learn React step by step", Privacy: PrivacyPublic, Date: "2023-11-12"},
	{Type: "Text", Content: "Node.js event loop explained", Privacy: PrivacyConfidential, Date: "2024-03-18"},
}

// SearchFlow holds the state of the search screen. A new Submit cancels the
// one in flight, and a superseded response never touches the state.
type SearchFlow struct {
	querier   Querier
	session   *Session
	purpose   string
	maxChunks int
	pageSize  int
	guard     *Guard
	now       func() time.Time

	mu          sync.Mutex
	seq         uint64
	query       string
	privacy     []string
	sort        SortOrder
	page        int
	hasSearched bool
	results     []ResultItem
	lastErr     string
	fallback    []ResultItem
}

// NewSearchFlow creates the flow in its initial, not-yet-searched state
func NewSearchFlow(querier Querier, session *Session, cfg *Config) *SearchFlow {
	pageSize := cfg.Search.PageSize
	if pageSize <= 0 {
		pageSize = 3
	}
	return &SearchFlow{
		querier:   querier,
		session:   session,
		purpose:   cfg.Search.Purpose,
		maxChunks: cfg.Search.MaxChunks,
		pageSize:  pageSize,
		guard:     NewGuard(PolicyReplace),
		now:       time.Now,
		sort:      SortTitleAsc,
		page:      1,
		fallback:  FallbackDataset,
	}
}

// Submit runs a query. A blank query resets the flow without contacting the backend.
func (s *SearchFlow) Submit(ctx context.Context, query string) ([]ResultItem, error) {
	s.mu.Lock()
	s.query = query
	if strings.TrimSpace(query) == "" {
		s.resetLocked()
		s.mu.Unlock()
		s.guard.Cancel()
		return nil, nil
	}
	s.seq++
	id := s.seq
	s.mu.Unlock()

	err := s.guard.Run(ctx, func(ctx context.Context) error {
		token, ok := s.session.Token()
		if !ok {
			LogWarn("No stored credential; sending query without Authorization")
		}

		LogDebug("Querying %q (purpose=%s, max_chunks=%d)", query, s.purpose, s.maxChunks)
		resp, err := s.querier.Query(ctx, token, QueryRequest{
			Query:     query,
			Purpose:   s.purpose,
			MaxChunks: s.maxChunks,
		})

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.seq != id {
			LogDebug("Discarding superseded response for %q", query)
			return context.Canceled
		}

		s.hasSearched = true
		if err != nil {
			s.results = nil
			qerr := &QueryError{Message: queryErrorMessage(err), Err: err}
			s.lastErr = qerr.Message
			return qerr
		}

		answer := resp.Answer
		if answer == "" {
			answer = noAnswer
		}
		s.results = []ResultItem{{
			Type:    "Answer",
			Content: answer,
			Privacy: PrivacyBackend,
			Date:    Today(s.now()),
		}}
		s.lastErr = ""
		s.page = 1
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Filtered(), nil
}

// queryErrorMessage is the text shown for a failed query: the raw response
// body for HTTP errors, the error itself otherwise.
func queryErrorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if body := strings.TrimSpace(apiErr.Body); body != "" {
			return apiErr.Body
		}
		return queryFailed
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return unexpectedFailed
}

// Reset returns the flow to its initial state, keeping filters and sort order
func (s *SearchFlow) Reset() {
	s.mu.Lock()
	s.query = ""
	s.resetLocked()
	s.mu.Unlock()
	s.guard.Cancel()
}

func (s *SearchFlow) resetLocked() {
	s.seq++
	s.hasSearched = false
	s.results = nil
	s.lastErr = ""
	s.page = 1
}

// SetPrivacyFilter restricts fallback rows to the given labels; none means all
func (s *SearchFlow) SetPrivacyFilter(labels ...string) error {
	var selected []string
	for _, l := range labels {
		idx := slices.IndexFunc(PrivacyOptions, func(o string) bool { return strings.EqualFold(o, l) })
		if idx < 0 {
			return &ValidationError{Msg: fmt.Sprintf("unknown privacy label %q (want one of %s)", l, strings.Join(PrivacyOptions, ", "))}
		}
		if !slices.Contains(selected, PrivacyOptions[idx]) {
			selected = append(selected, PrivacyOptions[idx])
		}
	}
	s.mu.Lock()
	s.privacy = selected
	s.mu.Unlock()
	return nil
}

// SetSort changes the sort order
func (s *SearchFlow) SetSort(order SortOrder) {
	s.mu.Lock()
	s.sort = order
	s.mu.Unlock()
}

// HasSearched reports whether a non-blank query was submitted since the last reset
func (s *SearchFlow) HasSearched() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasSearched
}

// LastError returns the error string shown for the last query, if any
func (s *SearchFlow) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Results returns the backend results of the last query
func (s *SearchFlow) Results() []ResultItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.results)
}

// Filtered returns the list shown to the user. Backend results are shown as
// they are; once a search came back empty the fallback dataset is filtered
// by query text and privacy label, then sorted.
func (s *SearchFlow) Filtered() []ResultItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filteredLocked()
}

func (s *SearchFlow) filteredLocked() []ResultItem {
	if !s.hasSearched || len(s.results) > 0 {
		return slices.Clone(s.results)
	}
	return FilterItems(s.fallback, s.query, s.privacy, s.sort)
}

// FilterItems applies the substring, privacy and sort post-processing to items
func FilterItems(items []ResultItem, query string, privacy []string, order SortOrder) []ResultItem {
	out := make([]ResultItem, 0, len(items))
	q := strings.TrimSpace(query)
	for _, it := range items {
		if q != "" && !ContainsFold(it.Content, query) {
			continue
		}
		if len(privacy) > 0 && !slices.Contains(privacy, it.Privacy) {
			continue
		}
		out = append(out, it)
	}
	SortItems(out, order)
	return out
}

// SortItems sorts in place. Titles compare case-insensitively first, dates as ISO strings.
func SortItems(items []ResultItem, order SortOrder) {
	byTitle := func(a, b ResultItem) int {
		if c := strings.Compare(strings.ToLower(a.Content), strings.ToLower(b.Content)); c != 0 {
			return c
		}
		return strings.Compare(a.Content, b.Content)
	}
	byDate := func(a, b ResultItem) int {
		return strings.Compare(a.Date, b.Date)
	}

	switch order {
	case SortTitleAsc:
		slices.SortStableFunc(items, byTitle)
	case SortTitleDesc:
		slices.SortStableFunc(items, func(a, b ResultItem) int { return byTitle(b, a) })
	case SortDateAsc:
		slices.SortStableFunc(items, byDate)
	case SortDateDesc:
		slices.SortStableFunc(items, func(a, b ResultItem) int { return byDate(b, a) })
	}
}

// PageCount is ceil(n/pageSize) for the filtered list
func (s *SearchFlow) PageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pageCount(len(s.filteredLocked()), s.pageSize)
}

func pageCount(n, size int) int {
	return (n + size - 1) / size
}

// clampPage keeps page within [1, count]; an empty list still shows page 1
func clampPage(page, count int) int {
	if page > count {
		page = count
	}
	if page < 1 {
		page = 1
	}
	return page
}

// CurrentPage returns the clamped page number
func (s *SearchFlow) CurrentPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clampPage(s.page, pageCount(len(s.filteredLocked()), s.pageSize))
}

// SetPage moves to page, clamped into range, and returns the page shown
func (s *SearchFlow) SetPage(page int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = clampPage(page, pageCount(len(s.filteredLocked()), s.pageSize))
	return s.page
}

// NextPage advances one page
func (s *SearchFlow) NextPage() int {
	return s.SetPage(s.CurrentPage() + 1)
}

// PrevPage goes back one page
func (s *SearchFlow) PrevPage() int {
	return s.SetPage(s.CurrentPage() - 1)
}

// PageItems returns the items of the current page
func (s *SearchFlow) PageItems() []ResultItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.filteredLocked()
	page := clampPage(s.page, pageCount(len(items), s.pageSize))
	start := (page - 1) * s.pageSize
	if start >= len(items) {
		return nil
	}
	end := min(start+s.pageSize, len(items))
	return items[start:end]
}

// Logout clears persisted client state and returns the route to show next
func (s *SearchFlow) Logout() (string, error) {
	s.Reset()
	if err := s.session.Clear(); err != nil {
		return "", err
	}
	LogInfo("Logged out")
	return RouteLogin, nil
}
