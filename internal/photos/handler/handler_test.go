package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"hvac_quote_backend/internal/leads/repository"
	"hvac_quote_backend/internal/photos/flow"
	"hvac_quote_backend/internal/photos/photolink"
	"hvac_quote_backend/internal/photos/service"
	"hvac_quote_backend/platform/logger"
	"hvac_quote_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memPhotos struct{ rows []repository.Photo }

func (m *memPhotos) CreatePhoto(_ context.Context, p repository.CreatePhotoParams) (repository.Photo, error) {
	row := repository.Photo{ID: uuid.New(), LeadID: p.LeadID, PhotoKey: p.PhotoKey, StoragePath: p.StoragePath,
		FileSize: p.FileSize, MimeType: p.MimeType, CreatedAt: time.Now()}
	m.rows = append(m.rows, row)
	return row, nil
}

func (m *memPhotos) GetPhotoByID(_ context.Context, id uuid.UUID) (repository.Photo, error) {
	for _, r := range m.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return repository.Photo{}, repository.ErrPhotoNotFound
}

func (m *memPhotos) ListPhotos(_ context.Context, leadID uuid.UUID) ([]repository.Photo, error) {
	var out []repository.Photo
	for _, r := range m.rows {
		if r.LeadID == leadID {
			out = append(out, r)
		}
	}
	return out, nil
}

type memLeads struct{ id uuid.UUID }

func (m memLeads) LeadExists(_ context.Context, id uuid.UUID) (bool, error) { return id == m.id, nil }
func (memLeads) MarkPhotosSubmitted(context.Context, uuid.UUID) error       { return nil }

type memStorage struct{ objects map[string][]byte }

func (m *memStorage) UploadFile(_ context.Context, _, key, _ string, r io.Reader, _ int64) (string, error) {
	b, _ := io.ReadAll(r)
	m.objects[key] = b
	return key, nil
}

func (m *memStorage) DownloadFile(_ context.Context, _, key string) (io.ReadCloser, error) {
	b, ok := m.objects[key]
	if !ok {
		return nil, errors.New("missing")
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *memStorage) DeleteObject(context.Context, string, string) error { return nil }
func (m *memStorage) EnsureBucketExists(context.Context, string) error   { return nil }
func (m *memStorage) ObjectURL(bucket, key string) string                { return bucket + "/" + key }
func (m *memStorage) GetMaxFileSize() int64                              { return 1 << 20 }
func (m *memStorage) ValidateFileSize(n int64) error {
	if n <= 0 || n > m.GetMaxFileSize() {
		return errors.New("bad size")
	}
	return nil
}
func (m *memStorage) ValidateContentType(ct string) error {
	if !strings.HasPrefix(ct, "image/") {
		return errors.New("bad type")
	}
	return nil
}

type harness struct {
	engine *gin.Engine
	links  *photolink.Signer
	leadID uuid.UUID
}

func newHarness() harness {
	gin.SetMode(gin.TestMode)
	leadID := uuid.New()
	svc := service.New(&memPhotos{}, memLeads{id: leadID}, &memStorage{objects: map[string][]byte{}}, "lead-photos", nil, nil, nil, logger.Discard())
	links := photolink.NewSigner("secret", time.Hour, "https://quotes.example.com")
	h := New(svc, links, validator.New(), 1<<20, logger.Discard())

	r := gin.New()
	h.RegisterRoutes(r.Group("/api/v1"), nil)
	h.RegisterAdminRoutes(r.Group("/api/v1/admin"))
	return harness{engine: r, links: links, leadID: leadID}
}

func (h harness) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.engine.ServeHTTP(w, req)
	return w
}

func multipartPhoto(t *testing.T, slot, contentType string, body []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)
	require.NoError(t, mw.WriteField("photoKey", slot))
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="photo"; filename="p.jpg"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(body)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func TestStepsRoute(t *testing.T) {
	h := newHarness()
	w := h.do(httptest.NewRequest(http.MethodGet, "/api/v1/photo-flow/steps", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Steps  []flow.Step `json:"steps"`
		Labels []string    `json:"labels"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Steps, flow.Default().Len())
	assert.Equal(t, flow.Default().Labels(), resp.Labels)
}

func TestTransitionRoute(t *testing.T) {
	h := newHarness()

	body := `{"position":0,"direction":"next"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/photo-flow/transition", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := h.do(req)
	require.Equal(t, http.StatusOK, w.Code)

	var out flow.Outcome
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, 1, out.Position)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/photo-flow/transition", strings.NewReader(`{"position":0,"direction":"sideways"}`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusBadRequest, h.do(req).Code)
}

func TestVerifyLinkRoute(t *testing.T) {
	h := newHarness()
	link, err := h.links.Sign(h.leadID)
	require.NoError(t, err)

	w := h.do(httptest.NewRequest(http.MethodGet, "/api/v1/photo-flow/verify?token="+link.Token, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), h.leadID.String())

	w = h.do(httptest.NewRequest(http.MethodGet, "/api/v1/photo-flow/verify?token=garbage", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUploadThenStreamAsAdmin(t *testing.T) {
	h := newHarness()
	body, ct := multipartPhoto(t, "outdoor-unit", "image/jpeg", []byte("jpeg-data"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/leads/"+h.leadID.String()+"/photos", body)
	req.Header.Set("Content-Type", ct)
	w := h.do(req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var photo struct {
		ID       uuid.UUID `json:"id"`
		PhotoKey string    `json:"photoKey"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &photo))
	assert.Equal(t, "outdoor-unit", photo.PhotoKey)

	w = h.do(httptest.NewRequest(http.MethodGet, "/api/v1/admin/photos/"+photo.ID.String(), nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, "jpeg-data", w.Body.String())

	w = h.do(httptest.NewRequest(http.MethodGet, "/api/v1/leads/"+h.leadID.String()+"/photos/status", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"outdoor-unit":"success"`)
}

func TestUploadErrors(t *testing.T) {
	h := newHarness()

	body, ct := multipartPhoto(t, "garage", "image/jpeg", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leads/"+h.leadID.String()+"/photos", body)
	req.Header.Set("Content-Type", ct)
	assert.Equal(t, http.StatusBadRequest, h.do(req).Code)

	body, ct = multipartPhoto(t, "outdoor-unit", "image/jpeg", []byte("x"))
	req = httptest.NewRequest(http.MethodPost, "/api/v1/leads/"+uuid.NewString()+"/photos", body)
	req.Header.Set("Content-Type", ct)
	assert.Equal(t, http.StatusNotFound, h.do(req).Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/leads/"+h.leadID.String()+"/photos", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusBadRequest, h.do(req).Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/leads/not-a-uuid/photos", nil)
	assert.Equal(t, http.StatusBadRequest, h.do(req).Code)
}

func TestCompleteWithoutPhotos(t *testing.T) {
	h := newHarness()
	w := h.do(httptest.NewRequest(http.MethodPost, "/api/v1/leads/"+h.leadID.String()+"/photos/complete", nil))
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
}

func TestLinkQRCode(t *testing.T) {
	h := newHarness()
	w := h.do(httptest.NewRequest(http.MethodGet, "/api/v1/leads/"+h.leadID.String()+"/photo-link.png", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))
}
