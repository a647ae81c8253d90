package internal

import (
	"context"
	"strings"
	"sync"
	"time"
)

// textInputLabel names the receipt entry for a pasted-text upload
const textInputLabel = "Text input"

// UploadFlow holds the state of the upload screen: pending files, pasted text,
// the chosen sensitivity level and the receipts of this session.
type UploadFlow struct {
	ingester Ingester
	session  *Session
	ingest   IngestConfig
	step     int
	interval time.Duration
	guard    *Guard
	now      func() time.Time

	mu       sync.Mutex
	pending  *PendingSet
	text     string
	level    Sensitivity
	receipts []Receipt
	lastErr  string

	// OnProgress receives each value of the post-response progress indicator
	OnProgress func(percent int)
}

// NewUploadFlow creates the flow. A second Submit while one is running fails with ErrBusy.
func NewUploadFlow(ingester Ingester, session *Session, cfg *Config) *UploadFlow {
	return &UploadFlow{
		ingester: ingester,
		session:  session,
		ingest:   cfg.Ingest,
		step:     cfg.Progress.Step,
		interval: cfg.Progress.UploadInterval,
		guard:    NewGuard(PolicyReject),
		now:      time.Now,
		pending:  NewPendingSet(),
		level:    Sensitivity(cfg.Ingest.DefaultLevel),
	}
}

// SelectFiles adds files to the pending set. Rejections are returned and kept
// as the screen's error message; accepted files are added either way.
func (u *UploadFlow) SelectFiles(paths ...string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.lastErr = ""
	err := u.pending.AddPaths(paths...)
	if err != nil {
		u.lastErr = err.Error()
	}
	return err
}

// RemoveFile drops a pending file by name
func (u *UploadFlow) RemoveFile(name string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.pending.Remove(name)
}

// Pending returns the files waiting to be submitted
func (u *UploadFlow) Pending() []PendingFile {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.pending.Files()
}

// SetText sets the pasted text
func (u *UploadFlow) SetText(text string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.text = text
}

// Text returns the pasted text
func (u *UploadFlow) Text() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.text
}

// SetLevel sets the sensitivity level (1-10)
func (u *UploadFlow) SetLevel(level Sensitivity) error {
	if err := level.Validate(); err != nil {
		return err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.level = level
	return nil
}

// Level returns the current sensitivity level
func (u *UploadFlow) Level() Sensitivity {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.level
}

// Receipts returns the receipts of this session, most recent last
func (u *UploadFlow) Receipts() []Receipt {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]Receipt, len(u.receipts))
	copy(out, u.receipts)
	return out
}

// LastError returns the message currently shown to the user, if any
func (u *UploadFlow) LastError() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.lastErr
}

// Busy reports whether a submit is in flight
func (u *UploadFlow) Busy() bool {
	return u.guard.Busy()
}

// BuildContent picks the ingested content: pasted text when it is not blank,
// otherwise the pending file names joined with ", ".
func BuildContent(fileNames []string, text string) string {
	if strings.TrimSpace(text) != "" {
		return text
	}
	return strings.Join(fileNames, ", ")
}

// submission is what a Submit captured from the screen when it started
type submission struct {
	req   IngestRequest
	names []string
	text  string
	level Sensitivity
}

// BuildRequest assembles the ingestion request from the current state
func (u *UploadFlow) BuildRequest() (IngestRequest, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	sub, err := u.snapshotLocked()
	return sub.req, err
}

func (u *UploadFlow) snapshotLocked() (submission, error) {
	if u.pending.Len() == 0 && strings.TrimSpace(u.text) == "" {
		return submission{}, &ValidationError{Msg: "nothing to upload"}
	}
	roles := make([]string, len(u.ingest.ACLRoles))
	copy(roles, u.ingest.ACLRoles)
	names := u.pending.Names()
	return submission{
		req: IngestRequest{
			OrgID:       u.ingest.OrgID,
			Title:       u.ingest.Title,
			Content:     BuildContent(names, u.text),
			Sensitivity: int(u.level),
			ACLRoles:    roles,
		},
		names: names,
		text:  u.text,
		level: u.level,
	}, nil
}

// Submit ingests the pending files or text. On failure the pending state is
// kept for a retry; while another Submit is running it fails with ErrBusy and
// leaves the state alone. Files selected while the request is in flight stay
// pending for the next Submit.
func (u *UploadFlow) Submit(ctx context.Context) (Receipt, error) {
	var receipt Receipt
	err := u.guard.Run(ctx, func(ctx context.Context) error {
		u.mu.Lock()
		u.lastErr = ""
		sub, err := u.snapshotLocked()
		if err != nil {
			u.lastErr = err.Error()
			u.mu.Unlock()
			return err
		}
		u.mu.Unlock()

		token, ok := u.session.Token()
		if !ok {
			LogWarn("No stored credential; sending ingest request without Authorization")
		}

		LogDebug("Ingesting %d byte(s) at level %d", len(sub.req.Content), sub.req.Sensitivity)
		resp, err := u.ingester.Ingest(ctx, token, sub.req)
		if err != nil {
			uploadErr := &UploadError{Err: err}
			u.mu.Lock()
			u.lastErr = uploadErr.Error()
			u.mu.Unlock()
			return uploadErr
		}

		if err := RunStepProgress(ctx, u.step, u.interval, u.OnProgress); err != nil {
			LogDebug("Progress indicator stopped early: %v", err)
		}

		names := sub.names
		if len(names) == 0 {
			names = []string{textInputLabel}
		}
		receipt = Receipt{
			Timestamp:   u.now(),
			FileNames:   names,
			Sensitivity: sub.level,
			DocumentID:  resp.DocID,
			ChunkCount:  resp.ChunksCreated,
			Scrambled:   true,
		}

		u.mu.Lock()
		u.receipts = append(u.receipts, receipt)
		for _, name := range sub.names {
			u.pending.Remove(name)
		}
		if u.text == sub.text {
			u.text = ""
		}
		u.mu.Unlock()

		LogInfo("Ingested document %s (%d chunk(s))", resp.DocID, resp.ChunksCreated)
		return nil
	})
	return receipt, err
}
