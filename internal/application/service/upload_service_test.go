package service

import (
	"context"
	"errors"
	"testing"

	"github.com/TintinDu/BilledApp/internal/application/port"
)

func TestUploadService_AcceptsImageReceipt(t *testing.T) {
	store := &mockBillStore{
		createArtifactFunc: func(ctx context.Context, upload *port.ArtifactUpload) (*port.ArtifactRef, error) {
			return &port.ArtifactRef{ID: "bill-42", FileURL: "/uploads/photo.png"}, nil
		},
	}
	svc := NewUploadService(store, staticSession("employee@test.tld", "Employee"), &mockLogger{})

	outcome := svc.HandleFileSelection(context.Background(), "photo.png", []byte("png-bytes"))

	if !outcome.Accepted {
		t.Fatal("outcome.Accepted = false, want true")
	}
	if outcome.InputCleared {
		t.Error("valid selection must not clear the input")
	}
	if svc.Annotation() != nil {
		t.Error("no annotation should exist before any rejection")
	}
	if store.createCount() != 1 {
		t.Fatalf("store create called %d times, want 1", store.createCount())
	}
	if got := store.createCalls[0].Email; got != "employee@test.tld" {
		t.Errorf("artifact upload email = %q, want session email", got)
	}

	capture := svc.Captured()
	if capture == nil {
		t.Fatal("Captured() = nil, want pending upload state")
	}
	if capture.BillID != "bill-42" || capture.FileURL != "/uploads/photo.png" || capture.FileName != "photo.png" {
		t.Errorf("Captured() = %+v, want id/url/name from the artifact result", capture)
	}
}

func TestUploadService_RejectsUnsupportedExtension(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
	}{
		{"pdf receipt", "report.pdf"},
		{"no extension", "receipt"},
		{"trailing dot", "receipt."},
		{"uppercase extension", "photo.PNG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockBillStore{}
			svc := NewUploadService(store, staticSession("employee@test.tld", "Employee"), &mockLogger{})

			outcome := svc.HandleFileSelection(context.Background(), tt.fileName, []byte("bytes"))

			if outcome.Accepted {
				t.Error("outcome.Accepted = true, want false")
			}
			if !outcome.InputCleared {
				t.Error("rejection must clear the file input")
			}
			if outcome.Annotation == nil || !outcome.Annotation.Visible {
				t.Error("rejection must show the error annotation")
			}
			if outcome.Annotation != nil && outcome.Annotation.Message != ExtensionErrorMessage {
				t.Errorf("annotation message = %q, want %q", outcome.Annotation.Message, ExtensionErrorMessage)
			}
			if store.createCount() != 0 {
				t.Error("store create must not fire for a rejected file")
			}
			if svc.Captured() != nil {
				t.Error("rejection must not capture upload state")
			}
		})
	}
}

func TestUploadService_AnnotationIsSingleAndSticky(t *testing.T) {
	svc := NewUploadService(&mockBillStore{}, nil, &mockLogger{})

	first := svc.HandleFileSelection(context.Background(), "a.pdf", nil)
	second := svc.HandleFileSelection(context.Background(), "b.gif", nil)

	// One node per form: repeated rejections reuse the same annotation.
	if first.Annotation != second.Annotation {
		t.Error("repeated rejections must reuse the single annotation")
	}

	// A later valid file hides the annotation without removing it.
	svc.HandleFileSelection(context.Background(), "ok.jpg", []byte("jpg"))
	annotation := svc.Annotation()
	if annotation == nil {
		t.Fatal("annotation must be retained after a valid selection")
	}
	if annotation.Visible {
		t.Error("annotation must be hidden once a valid file is selected")
	}
}

func TestUploadService_StripsPathFromSelection(t *testing.T) {
	store := &mockBillStore{}
	svc := NewUploadService(store, nil, &mockLogger{})

	outcome := svc.HandleFileSelection(context.Background(), `C:\fakepath\note de frais.jpeg`, []byte("jpeg"))

	if !outcome.Accepted {
		t.Fatal("outcome.Accepted = false, want true")
	}
	if outcome.FileName != "note de frais.jpeg" {
		t.Errorf("FileName = %q, want bare name without the fake path", outcome.FileName)
	}
	if capture := svc.Captured(); capture == nil || capture.FileName != "note de frais.jpeg" {
		t.Errorf("Captured() = %+v, want bare file name", capture)
	}
}

func TestUploadService_StoreFailureLeavesCaptureUnset(t *testing.T) {
	store := &mockBillStore{
		createArtifactFunc: func(ctx context.Context, upload *port.ArtifactUpload) (*port.ArtifactRef, error) {
			return nil, errors.New("store unavailable")
		},
	}
	svc := NewUploadService(store, nil, &mockLogger{})

	outcome := svc.HandleFileSelection(context.Background(), "photo.png", []byte("png"))

	// The handler swallows the store error: the form stays submittable and
	// the resulting bill simply carries no receipt fields.
	if !outcome.Accepted {
		t.Error("store failure must not be reported as a validation failure")
	}
	if svc.Captured() != nil {
		t.Error("failed artifact creation must leave the capture unset")
	}
}

func TestUploadService_ReselectionOverwritesCapture(t *testing.T) {
	var calls int
	store := &mockBillStore{
		createArtifactFunc: func(ctx context.Context, upload *port.ArtifactUpload) (*port.ArtifactRef, error) {
			calls++
			return &port.ArtifactRef{ID: upload.FileName, FileURL: "/uploads/" + upload.FileName}, nil
		},
	}
	svc := NewUploadService(store, nil, &mockLogger{})

	svc.HandleFileSelection(context.Background(), "first.png", []byte("1"))
	svc.HandleFileSelection(context.Background(), "second.jpg", []byte("2"))

	if calls != 2 {
		t.Fatalf("store create called %d times, want 2", calls)
	}
	if capture := svc.Captured(); capture == nil || capture.FileName != "second.jpg" {
		t.Errorf("Captured() = %+v, want last selection to win", capture)
	}
}

func TestUploadService_Reset(t *testing.T) {
	svc := NewUploadService(&mockBillStore{}, nil, &mockLogger{})

	svc.HandleFileSelection(context.Background(), "photo.png", []byte("png"))
	if svc.Captured() == nil {
		t.Fatal("expected a capture before Reset")
	}

	svc.Reset()
	if svc.Captured() != nil {
		t.Error("Reset() must clear the pending capture")
	}
}
