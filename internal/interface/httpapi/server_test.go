package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/talent-tagger/internal/core/tagging"
	"github.com/jinford/talent-tagger/internal/platform/metrics"
	"github.com/jinford/talent-tagger/internal/shared/apperr"
)

type stubProcessor struct {
	result    *tagging.Result
	err       error
	gotRaw    []byte
	threshold float64
}

func (p *stubProcessor) ProcessTalent(_ context.Context, raw []byte, threshold float64) (*tagging.Result, error) {
	p.gotRaw = raw
	p.threshold = threshold
	return p.result, p.err
}

func newTestServer(p TalentProcessor) *Server {
	return NewServer(p, metrics.NewManager(),
		WithServerLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithDefaultThreshold(0.85),
	)
}

func multipartRequest(t *testing.T, file []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if file != nil {
		fw, err := mw.CreateFormFile("file", "profile.json")
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/talent", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandleTalent_GeneratedTags(t *testing.T) {
	p := &stubProcessor{result: &tagging.Result{
		Tags: []tagging.TagRecord{{Tag: "핀테크", Reason: "토스 근무"}},
	}}
	rec := httptest.NewRecorder()

	newTestServer(p).Handler().ServeHTTP(rec, multipartRequest(t, []byte(`{"x":1}`), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, 0.85, p.threshold)
	assert.Equal(t, `{"x":1}`, string(p.gotRaw))

	var body struct {
		Tags []tagging.TagRecord `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []tagging.TagRecord{{Tag: "핀테크", Reason: "토스 근무"}}, body.Tags)
}

func TestHandleTalent_MatchedTagsAreStrings(t *testing.T) {
	p := &stubProcessor{result: &tagging.Result{
		Matched: true,
		Tags:    []tagging.TagRecord{{Tag: "핀테크"}, {Tag: "백엔드"}},
	}}
	rec := httptest.NewRecorder()

	newTestServer(p).Handler().ServeHTTP(rec, multipartRequest(t, []byte(`{}`), map[string]string{"threshold": "0.9"}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0.9, p.threshold)
	assert.JSONEq(t, `{"tags": ["핀테크", "백엔드"]}`, rec.Body.String())
}

func TestHandleTalent_Errors(t *testing.T) {
	tests := []struct {
		name   string
		file   []byte
		fields map[string]string
		err    error
		want   int
	}{
		{name: "missing file", want: http.StatusBadRequest},
		{name: "bad threshold", file: []byte(`{}`), fields: map[string]string{"threshold": "abc"}, want: http.StatusBadRequest},
		{name: "threshold out of range", file: []byte(`{}`), fields: map[string]string{"threshold": "1.2"}, want: http.StatusBadRequest},
		{name: "input error", file: []byte(`{}`), err: apperr.Input("profile.Parse", errors.New("positions is required")), want: http.StatusBadRequest},
		{name: "service error", file: []byte(`{}`), err: apperr.Service("embed", errors.New("timeout")), want: http.StatusBadGateway},
		{name: "unexpected", file: []byte(`{}`), err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &stubProcessor{err: tt.err}
			rec := httptest.NewRecorder()

			newTestServer(p).Handler().ServeHTTP(rec, multipartRequest(t, tt.file, tt.fields))

			assert.Equal(t, tt.want, rec.Code)
			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestServer_HealthAndMetrics(t *testing.T) {
	h := newTestServer(&stubProcessor{}).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `talent_tagger_http_requests_total{code="200",route="/healthz"} 1`)
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- newTestServer(&stubProcessor{}).Run(ctx, "127.0.0.1:0")
	}()

	cancel()
	assert.NoError(t, <-done)
}
