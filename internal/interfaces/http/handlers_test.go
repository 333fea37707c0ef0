package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TintinDu/BilledApp/internal/application/service"
	"github.com/TintinDu/BilledApp/internal/domain/entity"
	"github.com/TintinDu/BilledApp/internal/export"
	"github.com/TintinDu/BilledApp/pkg/utils"
)

type stubUploadService struct {
	outcome *service.UploadOutcome
}

func (s *stubUploadService) HandleFileSelection(_ context.Context, fileName string, _ []byte) *service.UploadOutcome {
	if s.outcome != nil {
		return s.outcome
	}
	return &service.UploadOutcome{Accepted: true, FileName: fileName}
}

func (s *stubUploadService) Captured() *service.UploadCapture     { return nil }
func (s *stubUploadService) Annotation() *service.ErrorAnnotation { return nil }
func (s *stubUploadService) Reset()                               {}

type stubBillService struct {
	submitErr error
	forms     []service.FormSnapshot
}

func (s *stubBillService) HandleSubmit(_ context.Context, form service.FormSnapshot) error {
	if s.submitErr != nil {
		return s.submitErr
	}
	s.forms = append(s.forms, form)
	return nil
}

func (s *stubBillService) Flush() {}

type stubTriageService struct {
	bills   []*entity.Bill
	loadErr error
	decided *entity.Bill
}

func (s *stubTriageService) LoadBills(context.Context) ([]*entity.Bill, error) {
	return s.bills, s.loadErr
}

func (s *stubTriageService) ToggleBucket(index int) *service.BucketView {
	return &service.BucketView{Index: index, Status: service.GetStatus(index), Phase: service.PhaseExpanded}
}

func (s *stubTriageService) ToggleBill(bill *entity.Bill) *service.DetailView {
	return &service.DetailView{BillID: bill.ID, Phase: service.PhaseShowForm, Bill: bill}
}

func (s *stubTriageService) Accept(_ context.Context, bill *entity.Bill, commentAdmin string) *entity.Bill {
	return s.rule(bill, entity.StatusAccepted, commentAdmin)
}

func (s *stubTriageService) Refuse(_ context.Context, bill *entity.Bill, commentAdmin string) *entity.Bill {
	return s.rule(bill, entity.StatusRefused, commentAdmin)
}

func (s *stubTriageService) rule(bill *entity.Bill, status, commentAdmin string) *entity.Bill {
	updated := bill.Clone()
	updated.Status = status
	updated.CommentAdmin = commentAdmin
	s.decided = updated
	return updated
}

func (s *stubTriageService) Flush() {}

func newTestServer(t *testing.T, upload service.UploadService, bills service.BillService, triage service.TriageService) *Server {
	t.Helper()
	logger := utils.NewKVLogger(zap.NewNop())
	return NewServer(DefaultServerConfig(), upload, bills, triage, export.NewExporter(zap.NewNop()), logger)
}

func perform(server *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	server := newTestServer(t, &stubUploadService{}, &stubBillService{}, &stubTriageService{})

	rec := perform(server, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeResponse(t, rec).Success)
}

func multipartBody(t *testing.T, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestUploadReceipt(t *testing.T) {
	t.Run("accepted upload", func(t *testing.T) {
		server := newTestServer(t, &stubUploadService{}, &stubBillService{}, &stubTriageService{})

		body, contentType := multipartBody(t, "receipt.png", []byte("png-bytes"))
		req := httptest.NewRequest(http.MethodPost, "/api/bills/upload", body)
		req.Header.Set("Content-Type", contentType)

		rec := perform(server, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, decodeResponse(t, rec).Success)
	})

	t.Run("rejected extension surfaces the annotation", func(t *testing.T) {
		upload := &stubUploadService{outcome: &service.UploadOutcome{
			FileName:     "receipt.pdf",
			InputCleared: true,
			Annotation:   &service.ErrorAnnotation{Message: service.ExtensionErrorMessage, Visible: true},
		}}
		server := newTestServer(t, upload, &stubBillService{}, &stubTriageService{})

		body, contentType := multipartBody(t, "receipt.pdf", []byte("%PDF"))
		req := httptest.NewRequest(http.MethodPost, "/api/bills/upload", body)
		req.Header.Set("Content-Type", contentType)

		rec := perform(server, req)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), service.ExtensionErrorMessage)
	})

	t.Run("missing file part", func(t *testing.T) {
		server := newTestServer(t, &stubUploadService{}, &stubBillService{}, &stubTriageService{})

		req := httptest.NewRequest(http.MethodPost, "/api/bills/upload", strings.NewReader(""))
		rec := perform(server, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSubmitBill(t *testing.T) {
	t.Run("valid submission is accepted", func(t *testing.T) {
		bills := &stubBillService{}
		server := newTestServer(t, &stubUploadService{}, bills, &stubTriageService{})

		payload := `{"type":"Transports","name":"Vol","amount":"348","date":"2023-04-04","vat":"70","pct":"20"}`
		req := httptest.NewRequest(http.MethodPost, "/api/bills", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")

		rec := perform(server, req)
		assert.Equal(t, http.StatusAccepted, rec.Code)
		require.Len(t, bills.forms, 1)
		assert.Equal(t, "348", bills.forms[0].Amount)
	})

	t.Run("invalid amount is a bad request", func(t *testing.T) {
		bills := &stubBillService{submitErr: service.ErrInvalidAmount}
		server := newTestServer(t, &stubUploadService{}, bills, &stubTriageService{})

		req := httptest.NewRequest(http.MethodPost, "/api/bills", strings.NewReader(`{"amount":"abc"}`))
		req.Header.Set("Content-Type", "application/json")

		rec := perform(server, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListBills(t *testing.T) {
	triage := &stubTriageService{bills: []*entity.Bill{
		{ID: "b1", Status: entity.StatusPending},
		{ID: "b2", Status: entity.StatusAccepted},
	}}
	server := newTestServer(t, &stubUploadService{}, &stubBillService{}, triage)

	t.Run("all bills", func(t *testing.T) {
		rec := perform(server, httptest.NewRequest(http.MethodGet, "/api/bills", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "b1")
		assert.Contains(t, rec.Body.String(), "b2")
	})

	t.Run("status filter", func(t *testing.T) {
		rec := perform(server, httptest.NewRequest(http.MethodGet, "/api/bills?status=accepted", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "b1")
		assert.Contains(t, rec.Body.String(), "b2")
	})

	t.Run("unknown status", func(t *testing.T) {
		rec := perform(server, httptest.NewRequest(http.MethodGet, "/api/bills?status=archived", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTriageDecisions(t *testing.T) {
	triage := &stubTriageService{bills: []*entity.Bill{{ID: "b1", Status: entity.StatusPending}}}
	server := newTestServer(t, &stubUploadService{}, &stubBillService{}, triage)

	t.Run("accept known bill", func(t *testing.T) {
		payload := `{"commentAdmin":"justificatif valide"}`
		req := httptest.NewRequest(http.MethodPost, "/api/triage/bills/b1/accept", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")

		rec := perform(server, req)
		assert.Equal(t, http.StatusAccepted, rec.Code)
		require.NotNil(t, triage.decided)
		assert.Equal(t, entity.StatusAccepted, triage.decided.Status)
		assert.Equal(t, "justificatif valide", triage.decided.CommentAdmin)
	})

	t.Run("unknown bill is a 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/triage/bills/nope/refuse", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")

		rec := perform(server, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestToggleBucket(t *testing.T) {
	server := newTestServer(t, &stubUploadService{}, &stubBillService{}, &stubTriageService{})

	rec := perform(server, httptest.NewRequest(http.MethodPost, "/api/triage/buckets/2/toggle", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), entity.StatusAccepted)

	rec = perform(server, httptest.NewRequest(http.MethodPost, "/api/triage/buckets/x/toggle", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportDashboard(t *testing.T) {
	triage := &stubTriageService{bills: []*entity.Bill{{ID: "b1", Status: entity.StatusPending, Name: "Vol"}}}
	server := newTestServer(t, &stubUploadService{}, &stubBillService{}, triage)

	rec := perform(server, httptest.NewRequest(http.MethodGet, "/api/triage/export", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
	assert.NotEmpty(t, rec.Body.Bytes())
}
