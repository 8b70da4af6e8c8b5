package archive

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

type recordedRequest struct {
	method      string
	path        string
	acl         string
	contentType string
	body        []byte
}

func s3Server(t *testing.T, status int) (*httptest.Server, *recordedRequest) {
	t.Helper()
	rec := &recordedRequest{}
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.acl = r.Header.Get("X-Amz-Acl")
		rec.contentType = r.Header.Get("Content-Type")
		rec.body, _ = io.ReadAll(r.Body)
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)
	return server, rec
}

func testClient(t *testing.T, endpoint string) *SpacesClient {
	t.Helper()
	client, err := NewSpacesClient(SpacesConfig{
		AccessKey: "test-key",
		SecretKey: "test-secret",
		Bucket:    "receipts-bucket",
		Region:    "blr1",
		Endpoint:  endpoint,
		// The test server has no DNS name for hostname addressing.
		ForcePathStyle: true,
	})
	if err != nil {
		t.Fatalf("NewSpacesClient: %v", err)
	}
	return client
}

func TestUploadBytesPutsObject(t *testing.T) {
	server, rec := s3Server(t, http.StatusOK)
	client := testClient(t, server.URL)

	content := []byte("%PDF-1.3 receipt body")
	url, err := client.UploadBytes(context.Background(),
		"receipts/asha_rao_Technocratz2.0.pdf", content, "application/pdf")
	if err != nil {
		t.Fatalf("UploadBytes: %v", err)
	}

	if rec.method != http.MethodPut {
		t.Errorf("method = %s, want PUT", rec.method)
	}
	if rec.path != "/receipts-bucket/receipts/asha_rao_Technocratz2.0.pdf" {
		t.Errorf("path = %s", rec.path)
	}
	if rec.acl != "private" {
		t.Errorf("acl = %q, want private", rec.acl)
	}
	if rec.contentType != "application/pdf" {
		t.Errorf("content type = %q", rec.contentType)
	}
	if !bytes.Equal(rec.body, content) {
		t.Errorf("uploaded body = %q", rec.body)
	}
	if !strings.HasSuffix(url, "/receipts-bucket/receipts/asha_rao_Technocratz2.0.pdf") {
		t.Errorf("url = %q", url)
	}
}

func TestUploadBytesSurfacesServerError(t *testing.T) {
	server, _ := s3Server(t, http.StatusForbidden)
	client := testClient(t, server.URL)

	if _, err := client.UploadBytes(context.Background(),
		"receipts/x.pdf", []byte("data"), "application/pdf"); err == nil {
		t.Fatal("expected upload error")
	}
}
