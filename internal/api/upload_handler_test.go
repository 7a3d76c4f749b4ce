package api

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resumeKit/internal/extract"
)

type fakeScanner struct {
	err     error
	scanned int
}

func (s *fakeScanner) Scan(data []byte) error {
	s.scanned++
	return s.err
}

func newUploadRouter(scanner uploadScanner, maxBytes int64) *gin.Engine {
	h := NewUploadHandler(scanner, maxBytes, nil)
	r := gin.New()
	r.POST("/uploads/extract", asUser(1), h.ExtractText)
	return r
}

func uploadFile(t *testing.T, router http.Handler, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write(content)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/uploads/extract", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const resumeText = "Ada Lovelace\nProgrammer at Babbage & Co, 1842-1843\nWrote the first published algorithm."

func TestExtractText(t *testing.T) {
	scanner := &fakeScanner{}
	w := uploadFile(t, newUploadRouter(scanner, 1<<20), "cv.txt", []byte("  "+resumeText+"\n"))
	if w.Code != http.StatusOK {
		t.Fatalf("extract: %d %s", w.Code, w.Body.String())
	}
	var body struct {
		Text       string `json:"text"`
		Characters int    `json:"characters"`
		Filename   string `json:"filename"`
	}
	decodeBody(t, w, &body)
	if body.Text != resumeText || body.Characters != len([]rune(resumeText)) || body.Filename != "cv.txt" {
		t.Fatalf("unexpected body %+v", body)
	}
	if scanner.scanned != 1 {
		t.Fatal("upload was not scanned")
	}
}

func TestExtractTextRejections(t *testing.T) {
	cases := []struct {
		name     string
		scanErr  error
		filename string
		content  []byte
		want     int
	}{
		{"too large", nil, "cv.txt", bytes.Repeat([]byte("a"), 2048), http.StatusRequestEntityTooLarge},
		{"unsupported type", nil, "photo.png", []byte("\x89PNG\r\n\x1a\n" + strings.Repeat("x", 80)), http.StatusUnsupportedMediaType},
		{"too short", nil, "cv.txt", []byte("Ada"), http.StatusUnprocessableEntity},
		{"infected", fmt.Errorf("%w: Eicar-Signature", extract.ErrInfected), "cv.txt", []byte(resumeText), http.StatusBadRequest},
		{"scanner down", errors.New("dial tcp: connection refused"), "cv.txt", []byte(resumeText), http.StatusInternalServerError},
		{"broken pdf", nil, "cv.pdf", []byte("%PDF-1.4 " + strings.Repeat("garbage ", 20)), http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := uploadFile(t, newUploadRouter(&fakeScanner{err: tc.scanErr}, 1024), tc.filename, tc.content)
			if w.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestExtractTextMissingFile(t *testing.T) {
	w := doJSON(t, newUploadRouter(&fakeScanner{}, 1024), http.MethodPost, "/uploads/extract", map[string]string{"file": "nope"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
