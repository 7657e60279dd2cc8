package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/nfe-wms-connector/internal/config"
	"github.com/rezonia/nfe-wms-connector/internal/server"
)

const testKey = "42250302457533000203550010000422761011740306"

func sampleXML() string {
	return fmt.Sprintf(`<?xml version="1.0"?>
<nfeProc>
  <NFe>
    <infNFe Id="NFe%s">
      <ide><nNF>42276</nNF><serie>1</serie><dhEmi>2024-01-31T10:00:00-03:00</dhEmi></ide>
      <emit><CNPJ>02457533000203</CNPJ></emit>
      <dest><CNPJ>07876967000180</CNPJ></dest>
      <det nItem="1"><prod><cProd>P-100</cProd><xProd>Caixa</xProd><qCom>2</qCom><vProd>10.00</vProd></prod></det>
    </infNFe>
  </NFe>
</nfeProc>`, testKey)
}

// fakeWMS answers every POST like a healthy Corpem endpoint.
func fakeWMS(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T, endpoint string) *server.Server {
	t.Helper()
	cfg := config.Config{
		Endpoint:       endpoint,
		Token:          "test-token",
		OperatorTaxID:  "07876967000180",
		MaxUploadBytes: config.DefaultMaxUploadBytes,
		UploadDir:      t.TempDir(),
		Debug:          true,
	}
	return server.NewServer(cfg, nil)
}

func multipartUpload(t *testing.T, field, filename, mime, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	h.Set("Content-Type", mime)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func TestHealthEndpoint(t *testing.T) {
	var calls atomic.Int32
	srv := newTestServer(t, fakeWMS(t, &calls).URL)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ok", response["status"])
	assert.NotEmpty(t, response["time"])
}

func TestIntegrate_Sync(t *testing.T) {
	var calls atomic.Int32
	srv := newTestServer(t, fakeWMS(t, &calls).URL)

	body, contentType := multipartUpload(t, "xml", "nota.xml", "text/xml", sampleXML())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/integrations", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp server.IntegrationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Invoice)
	assert.Equal(t, testKey, resp.Invoice.AccessKey)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "P-100", resp.Products[0].Code)

	// One POST per product plus the goods receipt.
	assert.Equal(t, int32(2), calls.Load())
}

func TestIntegrate_SyncCompletesAfterClientDisconnect(t *testing.T) {
	var calls atomic.Int32
	wmsSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		time.Sleep(150 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(wmsSrv.Close)

	srv := newTestServer(t, wmsSrv.URL)

	body, contentType := multipartUpload(t, "xml", "nota.xml", "text/xml", sampleXML())
	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/integrations", body).WithContext(ctx)
	req.Header.Set("Content-Type", contentType)

	// Uploader goes away while the first vendor call is in flight.
	// Once a submission has started it must run to completion instead
	// of aborting with a transport error and a partial catalog.
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, int32(2), calls.Load(), "both vendor calls must complete")
}

func TestIntegrate_FileFieldFallback(t *testing.T) {
	var calls atomic.Int32
	srv := newTestServer(t, fakeWMS(t, &calls).URL)

	body, contentType := multipartUpload(t, "file", "nota.xml", "application/xml", sampleXML())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/integrations", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestIntegrate_NoFile(t *testing.T) {
	var calls atomic.Int32
	srv := newTestServer(t, fakeWMS(t, &calls).URL)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/integrations", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, calls.Load())
}

func TestIntegrate_RejectsWrongMIME(t *testing.T) {
	var calls atomic.Int32
	srv := newTestServer(t, fakeWMS(t, &calls).URL)

	body, contentType := multipartUpload(t, "xml", "nota.pdf", "application/pdf", "%PDF-1.4")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/integrations", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	assert.Zero(t, calls.Load())
}

func TestIntegrate_MalformedXMLReturnsKind(t *testing.T) {
	var calls atomic.Int32
	srv := newTestServer(t, fakeWMS(t, &calls).URL)

	body, contentType := multipartUpload(t, "xml", "nota.xml", "text/xml", "not xml at all")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/integrations", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp server.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "MALFORMED_DOCUMENT", resp.Kind)
	assert.Zero(t, calls.Load(), "no network call before a valid document")
}

func TestIntegrate_VendorRejectionCarriesPartialResults(t *testing.T) {
	wmsSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"CORPEM_WS_ERRO":"produto rejeitado"}`))
	}))
	t.Cleanup(wmsSrv.Close)

	srv := newTestServer(t, wmsSrv.URL)

	body, contentType := multipartUpload(t, "xml", "nota.xml", "text/xml", sampleXML())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/integrations", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var resp server.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "VENDOR_ERROR", resp.Kind)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "VENDOR_ERROR", string(resp.Products[0].Status))
}

func TestIntegrate_AsyncAndStatusPolling(t *testing.T) {
	var calls atomic.Int32
	srv := newTestServer(t, fakeWMS(t, &calls).URL)

	body, contentType := multipartUpload(t, "xml", "nota.xml", "text/xml", sampleXML())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/integrations?async=1", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)

	var accepted server.JobAcceptedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &accepted))
	require.NotEmpty(t, accepted.JobID)
	assert.Equal(t, "nota.xml", accepted.File.Name)

	require.Eventually(t, func() bool {
		sw := httptest.NewRecorder()
		sreq := httptest.NewRequest(http.MethodGet, accepted.StatusURL, nil)
		srv.Handler().ServeHTTP(sw, sreq)
		if sw.Code != http.StatusOK {
			return false
		}
		var status server.JobStatusResponse
		if err := json.Unmarshal(sw.Body.Bytes(), &status); err != nil {
			return false
		}
		return status.State == "done"
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, int32(2), calls.Load())
}

func TestJobStatus_Unknown(t *testing.T) {
	var calls atomic.Int32
	srv := newTestServer(t, fakeWMS(t, &calls).URL)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/integrations/not-there", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIntegrate_FileTooLarge(t *testing.T) {
	var calls atomic.Int32
	wmsSrv := fakeWMS(t, &calls)

	cfg := config.Config{
		Endpoint:       wmsSrv.URL,
		Token:          "t",
		OperatorTaxID:  "07876967000180",
		MaxUploadBytes: 10,
		UploadDir:      t.TempDir(),
	}
	srv := server.NewServer(cfg, nil)

	body, contentType := multipartUpload(t, "xml", "nota.xml", "text/xml", sampleXML())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/integrations", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Zero(t, calls.Load())
}
