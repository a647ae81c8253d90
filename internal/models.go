package internal

import (
	"fmt"
	"time"
)

// Sensitivity is the 1-10 privacy level attached to an ingested document
type Sensitivity int

const (
	MinSensitivity     Sensitivity = 1
	MaxSensitivity     Sensitivity = 10
	DefaultSensitivity Sensitivity = 7
)

// Privacy labels, also used by the search privacy filter
const (
	PrivacyPublic       = "Public"
	PrivacyConfidential = "Confidential"
	PrivacyRestricted   = "Restricted"
	PrivacyBackend      = "Backend"
)

// Label buckets the level into Public (1-3), Confidential (4-7) or Restricted (8-10)
func (s Sensitivity) Label() string {
	switch {
	case s <= 3:
		return PrivacyPublic
	case s <= 7:
		return PrivacyConfidential
	default:
		return PrivacyRestricted
	}
}

// Percent is the display percentage for the level
func (s Sensitivity) Percent() int {
	return int(s) * 10
}

// Validate checks the level is within 1..10
func (s Sensitivity) Validate() error {
	if s < MinSensitivity || s > MaxSensitivity {
		return &ValidationError{Msg: fmt.Sprintf("sensitivity level must be between %d and %d, got %d", MinSensitivity, MaxSensitivity, s)}
	}
	return nil
}

func (s Sensitivity) String() string {
	return fmt.Sprintf("%s (%d)", s.Label(), int(s))
}

// IngestRequest is the body of POST /documents/ingest
type IngestRequest struct {
	OrgID       int      `json:"org_id"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Sensitivity int      `json:"sensitivity"`
	ACLRoles    []string `json:"acl_roles"`
}

// IngestResponse is the success body of POST /documents/ingest
type IngestResponse struct {
	DocID         string `json:"doc_id"`
	ChunksCreated int    `json:"chunks_created"`
}

const (
	PurposeGeneral   = "general"
	DefaultMaxChunks = 3
)

// QueryRequest is the body of POST /documents/query
type QueryRequest struct {
	Query     string `json:"query"`
	Purpose   string `json:"purpose"`
	MaxChunks int    `json:"max_chunks"`
}

// QueryResponse is the success body of POST /documents/query
type QueryResponse struct {
	Answer  string `json:"answer"`
	QueryID string `json:"query_id,omitempty"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	UserID   int    `json:"user_id"`
	OrgID    int    `json:"org_id"`
	Password string `json:"password"`
}

// TokenResponse is the success body of POST /auth/login
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Receipt is the local record of a completed ingestion
type Receipt struct {
	Timestamp   time.Time   `json:"timestamp" yaml:"timestamp"`
	FileNames   []string    `json:"file_names" yaml:"file_names"`
	Sensitivity Sensitivity `json:"sensitivity" yaml:"sensitivity"`
	DocumentID  string      `json:"document_id" yaml:"document_id"`
	ChunkCount  int         `json:"chunk_count" yaml:"chunk_count"`
	Scrambled   bool        `json:"scrambled" yaml:"scrambled"`
}

// ResultItem is one row shown by the search and demo screens
type ResultItem struct {
	Type    string `json:"type" yaml:"type"`
	Content string `json:"content" yaml:"content"`
	Privacy string `json:"privacy,omitempty" yaml:"privacy,omitempty"`
	Date    string `json:"date" yaml:"date"`
}

// dateLayout is the ISO date format used for result dates
const dateLayout = "2006-01-02"

// Today formats the UTC calendar date of now the way result items carry it
func Today(now time.Time) string {
	return now.UTC().Format(dateLayout)
}
