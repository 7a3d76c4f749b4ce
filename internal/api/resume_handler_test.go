package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"resumeKit/internal/database"
	"resumeKit/internal/prefs"
	"resumeKit/internal/render"
	"resumeKit/internal/resume"
	"resumeKit/internal/tasks"
)

type resumeFixture struct {
	db      *gorm.DB
	queue   *fakeQueue
	storage *fakeStorage
	prefs   *prefs.Memory
	userID  uint
}

func newResumeFixture(t *testing.T) *resumeFixture {
	t.Helper()
	db := newTestDB(t)
	user := seedUser(t, db, "ada")
	return &resumeFixture{db: db, queue: &fakeQueue{}, storage: &fakeStorage{}, prefs: prefs.NewMemory(), userID: user.ID}
}

func (f *resumeFixture) router(maxResumes int) *gin.Engine {
	h := NewResumeHandler(f.db, f.queue, f.storage, f.prefs, nil, maxResumes)
	r := gin.New()
	g := r.Group("/resume", asUser(f.userID))
	g.GET("", h.ListResumes)
	g.POST("", h.CreateResume)
	g.GET("/:id", h.GetResume)
	g.PUT("/:id", h.UpdateResume)
	g.DELETE("/:id", h.DeleteResume)
	g.POST("/:id/fields", h.CommitField)
	g.GET("/:id/preview", h.Preview)
	g.GET("/:id/preview.html", h.PreviewHTML)
	g.POST("/:id/export", h.ExportResume)
	g.GET("/:id/download-link", h.GetDownloadLink)
	return r
}

func sampleDocument() resume.Document {
	return resume.Document{
		FullName: "Ada Lovelace",
		JobTitle: "Engineer",
		Email:    "ada@example.com",
		Summary:  "Analytical engine programmer.",
		Experiences: []resume.Experience{
			{Role: "Programmer", Company: "Babbage & Co", Duration: "1842-1843", Bullets: []string{"Wrote notes", "Published algorithm"}},
		},
		Skills: []string{"Mathematics", "Go"},
	}
}

func TestResumeCRUD(t *testing.T) {
	f := newResumeFixture(t)
	r := f.router(0)

	w := doJSON(t, r, http.MethodPost, "/resume", map[string]any{"title": "Main", "content": sampleDocument()})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	var created resumeResponse
	decodeBody(t, w, &created)
	if created.ID == 0 || created.Title != "Main" || created.Content.FullName != "Ada Lovelace" {
		t.Fatalf("unexpected create response %+v", created)
	}
	if created.Content.Projects == nil || created.Content.Education == nil {
		t.Fatal("list fields should be normalized")
	}

	second := doJSON(t, r, http.MethodPost, "/resume", map[string]any{"title": "Second", "content": resume.Document{FullName: "Ada"}})
	if second.Code != http.StatusCreated {
		t.Fatalf("create second: %d", second.Code)
	}

	doc := sampleDocument()
	doc.Summary = "Updated summary."
	path := fmt.Sprintf("/resume/%d", created.ID)
	w = doJSON(t, r, http.MethodPut, path, map[string]any{"title": "Renamed", "content": doc})
	if w.Code != http.StatusOK {
		t.Fatalf("update: %d %s", w.Code, w.Body.String())
	}
	var updated resumeResponse
	decodeBody(t, w, &updated)
	if updated.Title != "Renamed" || updated.Content.Summary != "Updated summary." {
		t.Fatalf("update not applied: %+v", updated)
	}

	w = doJSON(t, r, http.MethodGet, "/resume", nil)
	var list []resumeListItem
	decodeBody(t, w, &list)
	if len(list) != 2 || list[0].ID != created.ID {
		t.Fatalf("expected most recently edited first, got %+v", list)
	}

	if w := doJSON(t, r, http.MethodGet, "/resume/abc", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("invalid id: %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, "/resume/9999", nil); w.Code != http.StatusNotFound {
		t.Fatalf("missing id: %d", w.Code)
	}

	if w := doJSON(t, r, http.MethodDelete, path, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, path, nil); w.Code != http.StatusNotFound {
		t.Fatalf("deleted resume still readable: %d", w.Code)
	}
}

func TestResumeIsScopedToOwner(t *testing.T) {
	f := newResumeFixture(t)
	stranger := seedUser(t, f.db, "mallory")
	record := seedResume(t, f.db, stranger.ID, sampleDocument())

	r := f.router(0)
	for _, path := range []string{"", "/preview", "/download-link"} {
		if w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/resume/%d%s", record.ID, path), nil); w.Code != http.StatusNotFound {
			t.Fatalf("GET %s: expected 404, got %d", path, w.Code)
		}
	}
}

func TestCreateResumeLimit(t *testing.T) {
	f := newResumeFixture(t)
	r := f.router(1)

	if w := doJSON(t, r, http.MethodPost, "/resume", map[string]any{"title": "One"}); w.Code != http.StatusCreated {
		t.Fatalf("first: %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodPost, "/resume", map[string]any{"title": "Two"}); w.Code != http.StatusForbidden {
		t.Fatalf("expected limit, got %d", w.Code)
	}
}

func TestCommitField(t *testing.T) {
	f := newResumeFixture(t)
	record := seedResume(t, f.db, f.userID, sampleDocument())
	r := f.router(0)
	path := fmt.Sprintf("/resume/%d/fields", record.ID)

	var out struct {
		Applied bool            `json:"applied"`
		Content resume.Document `json:"content"`
	}
	w := doJSON(t, r, http.MethodPost, path, map[string]string{"path": render.BulletPath(0, 1), "value": "Published the first algorithm"})
	if w.Code != http.StatusOK {
		t.Fatalf("commit: %d %s", w.Code, w.Body.String())
	}
	decodeBody(t, w, &out)
	if !out.Applied || out.Content.Experiences[0].Bullets[1] != "Published the first algorithm" {
		t.Fatalf("edit not applied: %+v", out)
	}

	w = doJSON(t, r, http.MethodPost, path, map[string]string{"path": "experience.0.bullets.7", "value": "ghost"})
	decodeBody(t, w, &out)
	if out.Applied || len(out.Content.Experiences[0].Bullets) != 2 {
		t.Fatalf("out-of-range edit should be a no-op: %+v", out)
	}

	var stored database.Resume
	if err := f.db.First(&stored, record.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	var doc resume.Document
	if err := json.Unmarshal(stored.RenderedContent, &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Experiences[0].Bullets[1] != "Published the first algorithm" {
		t.Fatalf("edit not persisted: %v", doc.Experiences[0].Bullets)
	}
}

func TestPreviewUsesStoredPreferences(t *testing.T) {
	f := newResumeFixture(t)
	record := seedResume(t, f.db, f.userID, sampleDocument())
	prefRouter := newPreferenceRouter(f.prefs, f.userID)
	if w := doJSON(t, prefRouter, http.MethodPatch, "/preferences/colors", `{"accent_color": "#0a0b0c"}`); w.Code != http.StatusOK {
		t.Fatalf("patch colors: %d", w.Code)
	}
	if w := doJSON(t, prefRouter, http.MethodPost, "/preferences/sections/skills/toggle", nil); w.Code != http.StatusOK {
		t.Fatalf("toggle: %d", w.Code)
	}

	r := f.router(0)
	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/resume/%d/preview", record.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("preview: %d %s", w.Code, w.Body.String())
	}
	var tree render.Document
	decodeBody(t, w, &tree)
	if tree.Style.AccentColor != "#0a0b0c" || tree.Header.Name != "Ada Lovelace" {
		t.Fatalf("unexpected preview %+v", tree.Header)
	}
	for _, s := range tree.Sections {
		if s.ID == "skills" {
			t.Fatal("hidden section rendered")
		}
	}

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/resume/%d/preview.html", record.ID), nil)
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("preview html: %d %s", w.Code, w.Header().Get("Content-Type"))
	}
	if body := w.Body.String(); !strings.Contains(body, "Ada Lovelace") || !strings.Contains(body, render.ReadyMarkerID) {
		t.Fatal("html preview missing content or ready marker")
	}
}

func TestExportResume(t *testing.T) {
	f := newResumeFixture(t)
	record := seedResume(t, f.db, f.userID, sampleDocument())
	r := f.router(0)
	path := fmt.Sprintf("/resume/%d/export", record.ID)

	w := doJSON(t, r, http.MethodPost, path, nil)
	if w.Code != http.StatusAccepted {
		t.Fatalf("export: %d %s", w.Code, w.Body.String())
	}
	if len(f.queue.tasks) != 1 || f.queue.tasks[0].Type() != tasks.TypePDFExport {
		t.Fatalf("expected one export task, got %d", len(f.queue.tasks))
	}
	var payload tasks.PDFExportPayload
	if err := json.Unmarshal(f.queue.tasks[0].Payload(), &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if payload.ResumeID != record.ID || payload.UserID != f.userID {
		t.Fatalf("unexpected payload %+v", payload)
	}

	var stored database.Resume
	f.db.First(&stored, record.ID)
	if stored.ExportStatus != database.ExportRunning {
		t.Fatalf("status %q", stored.ExportStatus)
	}

	if w := doJSON(t, r, http.MethodPost, path, nil); w.Code != http.StatusConflict {
		t.Fatalf("second export while busy: %d", w.Code)
	}
	if len(f.queue.tasks) != 1 {
		t.Fatal("busy export must not enqueue")
	}
}

func TestExportEnqueueFailureReleasesFlag(t *testing.T) {
	f := newResumeFixture(t)
	f.queue.err = errors.New("redis unavailable")
	record := seedResume(t, f.db, f.userID, sampleDocument())
	f.db.Model(&record).Update("export_status", database.ExportFailed)

	w := doJSON(t, f.router(0), http.MethodPost, fmt.Sprintf("/resume/%d/export", record.ID), nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var stored database.Resume
	f.db.First(&stored, record.ID)
	if stored.ExportStatus != database.ExportFailed {
		t.Fatalf("status should be restored, got %q", stored.ExportStatus)
	}
}

func TestDownloadLink(t *testing.T) {
	f := newResumeFixture(t)
	record := seedResume(t, f.db, f.userID, sampleDocument())
	r := f.router(0)
	path := fmt.Sprintf("/resume/%d/download-link", record.ID)

	if w := doJSON(t, r, http.MethodGet, path, nil); w.Code != http.StatusConflict {
		t.Fatalf("no pdf yet: %d", w.Code)
	}

	f.db.Model(&record).Updates(map[string]any{"pdf_key": "exports/1/a.pdf", "export_status": database.ExportCompleted, "title": "Ada / CV 2024"})
	w := doJSON(t, r, http.MethodGet, path, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("download link: %d %s", w.Code, w.Body.String())
	}
	var body struct {
		URL string `json:"url"`
	}
	decodeBody(t, w, &body)
	if body.URL != "https://example.invalid/exports/1/a.pdf?filename=Ada-CV-2024.pdf" {
		t.Fatalf("unexpected url %q", body.URL)
	}

	if w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/resume/%d", record.ID), nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", w.Code)
	}
	if len(f.storage.deleted) != 1 || f.storage.deleted[0] != "exports/1/a.pdf" {
		t.Fatalf("exported pdf not removed: %v", f.storage.deleted)
	}
}

func TestDownloadFilename(t *testing.T) {
	cases := map[string]string{
		"Main":            "Main.pdf",
		"  ":              "resume.pdf",
		"Ada / CV 2024":   "Ada-CV-2024.pdf",
		"../../etc/passw": "etc-passw.pdf",
		"Résumé":          "R-sum.pdf",
	}
	for in, want := range cases {
		if got := downloadFilename(in); got != want {
			t.Errorf("downloadFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUpdateResumeRejectsBlankTitle(t *testing.T) {
	f := newResumeFixture(t)
	record := seedResume(t, f.db, f.userID, sampleDocument())
	r := f.router(0)

	path := fmt.Sprintf("/resume/%d", record.ID)
	if w := doJSON(t, r, http.MethodPut, path, map[string]any{"title": "   ", "content": sampleDocument()}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodPost, "/resume", map[string]any{"title": "\t"}); w.Code != http.StatusBadRequest {
		t.Fatalf("create: expected 400, got %d", w.Code)
	}

	var stored database.Resume
	f.db.First(&stored, record.ID)
	if stored.Title != record.Title {
		t.Fatalf("title changed to %q", stored.Title)
	}
}

func TestUpdateResumeFailureKeepsRecord(t *testing.T) {
	f := newResumeFixture(t)
	record := seedResume(t, f.db, f.userID, sampleDocument())
	r := f.router(0)

	if err := f.db.Callback().Update().Before("gorm:update").Register("test:fail_update", func(tx *gorm.DB) {
		tx.AddError(errors.New("disk full"))
	}); err != nil {
		t.Fatalf("register callback: %v", err)
	}

	doc := sampleDocument()
	doc.Summary = "Should not land."
	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/resume/%d", record.ID), map[string]any{
		"title":            "Renamed",
		"content":          doc,
		"original_content": map[string]string{"raw": "x"},
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}

	var stored database.Resume
	if err := f.db.First(&stored, record.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	var got resume.Document
	if err := json.Unmarshal(stored.RenderedContent, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stored.Title != record.Title || got.Summary != sampleDocument().Summary || len(stored.OriginalContent) != len(record.OriginalContent) {
		t.Fatalf("record partly updated: title=%q summary=%q", stored.Title, got.Summary)
	}
}
