package service

import (
	"context"
	"strings"
	"sync"

	"github.com/TintinDu/BilledApp/internal/application/port"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ExtensionErrorMessage is the inline annotation shown next to the file
// input when a non-image receipt is selected.
const ExtensionErrorMessage = "Seulement les fichiers de type jpeg, jpg ou png sont acceptés"

// allowedExtensions is the receipt whitelist. Matching is case-sensitive:
// "photo.PNG" is rejected.
var allowedExtensions = map[string]bool{
	"jpeg": true,
	"jpg":  true,
	"png":  true,
}

// ErrorAnnotation is the single error node attached to the submission form.
// Once created it is only ever shown or hidden, never removed, so the view
// keeps one stable element per form.
type ErrorAnnotation struct {
	Message string `json:"message"`
	Visible bool   `json:"visible"`
}

// UploadCapture holds the artifact reference captured from the last
// successful upload, merged into the next full submission.
type UploadCapture struct {
	BillID   string
	FileURL  string
	FileName string
}

// UploadOutcome reports what a file selection did.
type UploadOutcome struct {
	Accepted     bool
	FileName     string
	InputCleared bool
	Annotation   *ErrorAnnotation
}

// UploadService validates a selected receipt file and submits it to the
// store as an artifact. At most one instance is attached per form;
// re-selecting a file re-runs the whole sequence and overwrites any earlier
// capture (last-write-wins, no cancellation of in-flight calls).
type UploadService interface {
	// HandleFileSelection runs the validate/submit sequence. It never
	// returns an error: validation failures surface through the outcome and
	// store failures are logged.
	HandleFileSelection(ctx context.Context, fileName string, content []byte) *UploadOutcome

	// Captured returns the pending upload state, or nil when no upload has
	// succeeded since the last Reset
	Captured() *UploadCapture

	// Annotation returns the form's error annotation, nil until the first
	// rejection creates it
	Annotation() *ErrorAnnotation

	// Reset clears the pending capture, e.g. when a new form is opened
	Reset()
}

type uploadServiceImpl struct {
	store   port.BillStore
	session port.Session
	logger  Logger

	mu         sync.Mutex
	captured   *UploadCapture
	annotation *ErrorAnnotation
}

// NewUploadService creates a new UploadService
func NewUploadService(store port.BillStore, session port.Session, logger Logger) UploadService {
	return &uploadServiceImpl{
		store:   store,
		session: session,
		logger:  logger,
	}
}

// FileNameOf extracts the bare file name from a selection value that may
// carry path separators (browsers report C:\fakepath\name.png).
func FileNameOf(selection string) string {
	name := selection
	if idx := strings.LastIndexAny(name, `/\`); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}

// extensionOf returns the substring after the final dot of the bare file
// name, or "" when there is none.
func extensionOf(fileName string) string {
	idx := strings.LastIndex(fileName, ".")
	if idx < 0 || idx == len(fileName)-1 {
		return ""
	}
	return fileName[idx+1:]
}

func (s *uploadServiceImpl) HandleFileSelection(ctx context.Context, fileName string, content []byte) *UploadOutcome {
	name := FileNameOf(fileName)
	ext := extensionOf(name)

	s.mu.Lock()
	if !allowedExtensions[ext] {
		// Reject: clear the selection, show the single annotation. The
		// annotation is created once and reused on repeated rejections.
		if s.annotation == nil {
			s.annotation = &ErrorAnnotation{Message: ExtensionErrorMessage}
		}
		s.annotation.Visible = true
		outcome := &UploadOutcome{
			FileName:     name,
			InputCleared: true,
			Annotation:   s.annotation,
		}
		s.mu.Unlock()
		s.logger.Info("Receipt rejected", "file_name", name, "extension", ext)
		return outcome
	}

	// Valid file: hide (do not remove) any annotation left from an earlier
	// rejection.
	if s.annotation != nil {
		s.annotation.Visible = false
	}
	annotation := s.annotation
	s.mu.Unlock()

	var email string
	if s.session != nil {
		if user, err := s.session.Current(); err == nil && user != nil {
			email = user.Email
		}
	}

	ref, err := s.store.CreateArtifact(ctx, &port.ArtifactUpload{
		FileName: name,
		Content:  content,
		Email:    email,
	})
	if err != nil {
		// The form stays submittable; the resulting bill will simply carry
		// no receipt fields.
		s.logger.Error("Failed to create receipt artifact", "error", err, "file_name", name)
		return &UploadOutcome{Accepted: true, FileName: name, Annotation: annotation}
	}

	s.mu.Lock()
	s.captured = &UploadCapture{
		BillID:   ref.ID,
		FileURL:  ref.FileURL,
		FileName: name,
	}
	s.mu.Unlock()

	s.logger.Info("Receipt artifact created", "bill_id", ref.ID, "file_url", ref.FileURL)
	return &UploadOutcome{Accepted: true, FileName: name, Annotation: annotation}
}

func (s *uploadServiceImpl) Captured() *UploadCapture {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.captured == nil {
		return nil
	}
	capture := *s.captured
	return &capture
}

func (s *uploadServiceImpl) Annotation() *ErrorAnnotation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.annotation
}

func (s *uploadServiceImpl) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.captured = nil
}
