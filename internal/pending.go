package internal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/h2non/filetype"
)

// MaxFileSize is the largest file accepted into the pending set (20 MiB)
const MaxFileSize int64 = 20 * 1024 * 1024

// Accepted MIME types
const (
	MimePDF   = "application/pdf"
	MimeText  = "text/plain"
	MimeDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimePNG   = "image/png"
	MimeJPEG  = "image/jpeg"
	mimeZip   = "application/zip"

	// sniffSize covers the local headers filetype walks to tell OOXML from plain zip
	sniffSize = 8 * 1024
)

// AcceptedTypes is the upload allow-list
var AcceptedTypes = []string{MimePDF, MimeText, MimeDOCX, MimePNG, MimeJPEG}

// PendingFile is a file selected for upload but not yet submitted
type PendingFile struct {
	Name     string
	Size     int64
	MimeType string
	Path     string // local handle used for previews
}

// HumanSize formats the size for display
func (f PendingFile) HumanSize() string {
	return humanize.IBytes(uint64(f.Size))
}

// PendingSet holds selected files in selection order
type PendingSet struct {
	files []PendingFile
}

// NewPendingSet returns an empty set
func NewPendingSet() *PendingSet {
	return &PendingSet{}
}

// AddPaths inspects each path and adds the acceptable ones. Rejected files are
// reported together in a *RejectionError; accepted files are added regardless.
func (p *PendingSet) AddPaths(paths ...string) error {
	var rejections []Rejection
	for _, path := range paths {
		file, reasons := InspectFile(path)
		if len(reasons) > 0 {
			rejections = append(rejections, Rejection{Name: filepath.Base(path), Reasons: reasons})
			LogDebug("Rejected %s: %s", path, strings.Join(reasons, ", "))
			continue
		}
		p.Add(file)
	}
	if len(rejections) > 0 {
		return &RejectionError{Rejections: rejections}
	}
	return nil
}

// Add appends an already validated file
func (p *PendingSet) Add(file PendingFile) {
	p.files = append(p.files, file)
}

// Remove drops the first file with the given name and reports whether one was found
func (p *PendingSet) Remove(name string) bool {
	for i, f := range p.files {
		if f.Name == name {
			p.files = append(p.files[:i], p.files[i+1:]...)
			return true
		}
	}
	return false
}

// Files returns a copy of the pending files
func (p *PendingSet) Files() []PendingFile {
	out := make([]PendingFile, len(p.files))
	copy(out, p.files)
	return out
}

// Names returns the pending file names in order
func (p *PendingSet) Names() []string {
	names := make([]string, len(p.files))
	for i, f := range p.files {
		names[i] = f.Name
	}
	return names
}

// Len returns the number of pending files
func (p *PendingSet) Len() int {
	return len(p.files)
}

// Clear empties the set
func (p *PendingSet) Clear() {
	p.files = nil
}

// InspectFile stats and sniffs path, returning the file and any rejection reasons
func InspectFile(path string) (PendingFile, []string) {
	file := PendingFile{Name: filepath.Base(path), Path: path}

	info, err := os.Stat(path)
	if err != nil {
		return file, []string{fmt.Sprintf("cannot read file: %v", err)}
	}
	if info.IsDir() {
		return file, []string{"is a directory"}
	}
	file.Size = info.Size()

	mimeType, err := DetectMimeType(path)
	if err != nil {
		return file, []string{fmt.Sprintf("cannot read file: %v", err)}
	}
	file.MimeType = mimeType

	var reasons []string
	if !isAccepted(mimeType) {
		reasons = append(reasons, "File type must be one of "+strings.Join(AcceptedTypes, ", "))
	}
	if file.Size > MaxFileSize {
		reasons = append(reasons, "File is larger than "+humanize.IBytes(uint64(MaxFileSize)))
	}
	return file, reasons
}

// DetectMimeType sniffs the file header, falling back to a text heuristic and then the extension
func DetectMimeType(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, sniffSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	buf = buf[:n]

	if kind, err := filetype.Match(buf); err == nil && kind != filetype.Unknown {
		// Word files whose entries are not in the order filetype expects sniff as zip
		if kind.MIME.Value == mimeZip && strings.EqualFold(filepath.Ext(path), ".docx") {
			return MimeDOCX, nil
		}
		return kind.MIME.Value, nil
	}
	if n > 0 && isTextContent(buf) {
		return MimeText, nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text":
		return MimeText, nil
	case ".pdf":
		return MimePDF, nil
	case ".docx":
		return MimeDOCX, nil
	case ".png":
		return MimePNG, nil
	case ".jpg", ".jpeg":
		return MimeJPEG, nil
	}
	return "application/octet-stream", nil
}

// isTextContent reports whether buf has no NUL or control bytes other than tab, LF and CR
func isTextContent(buf []byte) bool {
	for _, b := range buf {
		if b == 0 {
			return false
		}
		if b < 32 && b != 9 && b != 10 && b != 13 {
			return false
		}
	}
	return true
}

func isAccepted(mimeType string) bool {
	for _, t := range AcceptedTypes {
		if t == mimeType {
			return true
		}
	}
	return false
}
