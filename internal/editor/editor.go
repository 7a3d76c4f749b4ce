// Package editor applies single-field, in-place edits to a résumé document.
package editor

import (
	"strconv"
	"strings"

	"resumeKit/internal/resume"
)

// Editor holds a document and at most one field being edited.
type Editor struct {
	doc     resume.Document
	editing bool
	path    string
	value   string
}

// New returns an editor over a private copy of doc.
func New(doc resume.Document) *Editor {
	return &Editor{doc: doc.Clone()}
}

// Document returns a copy of the current document.
func (e *Editor) Document() resume.Document {
	return e.doc.Clone()
}

// StartEdit enters edit mode for path. An edit already in progress is dropped unsaved.
func (e *Editor) StartEdit(path, current string) {
	e.editing = true
	e.path = path
	e.value = current
}

// Editing returns the path under edit and whether an edit is in progress.
func (e *Editor) Editing() (string, bool) {
	return e.path, e.editing
}

// Value returns the pending value of the field under edit.
func (e *Editor) Value() string { return e.value }

// SetValue replaces the pending value without committing it.
func (e *Editor) SetValue(v string) {
	if e.editing {
		e.value = v
	}
}

// Cancel leaves edit mode without touching the document.
func (e *Editor) Cancel() {
	e.editing = false
	e.path = ""
	e.value = ""
}

// Commit writes value to the field under edit and leaves edit mode. It reports whether the
// document changed; an unknown path or an index outside the current lists leaves the
// document as it was.
func (e *Editor) Commit(value string) bool {
	if !e.editing {
		return false
	}
	path := e.path
	e.Cancel()
	return Apply(&e.doc, path, value)
}

// Apply writes value at path inside doc. Only string leaves that already exist are
// written, so list lengths never change. Recognised paths:
//
//	summary
//	certifications
//	experience.<i>.bullets.<j>
//	project.<i>.description   (projects.<i>.description is accepted too)
func Apply(doc *resume.Document, path, value string) bool {
	parts := strings.Split(strings.TrimSpace(path), ".")
	switch parts[0] {
	case "summary":
		if len(parts) != 1 {
			return false
		}
		doc.Summary = value
		return true
	case "certifications":
		if len(parts) != 1 {
			return false
		}
		doc.Certifications = value
		return true
	case "experience":
		if len(parts) != 4 || parts[2] != "bullets" {
			return false
		}
		i, ok := index(parts[1], len(doc.Experiences))
		if !ok {
			return false
		}
		j, ok := index(parts[3], len(doc.Experiences[i].Bullets))
		if !ok {
			return false
		}
		doc.Experiences[i].Bullets[j] = value
		return true
	case "project", "projects":
		if len(parts) != 3 || parts[2] != "description" {
			return false
		}
		i, ok := index(parts[1], len(doc.Projects))
		if !ok {
			return false
		}
		doc.Projects[i].Description = value
		return true
	default:
		return false
	}
}

func index(s string, n int) (int, bool) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 || i >= n {
		return 0, false
	}
	return i, true
}
