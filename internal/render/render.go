// Package render turns a résumé document plus a resolved style into the tree shown in the
// preview and captured for export.
package render

import (
	"fmt"
	"strings"

	"resumeKit/internal/customization"
	"resumeKit/internal/resume"
	"resumeKit/internal/style"
)

// Document is the visual tree of one résumé.
type Document struct {
	Style    style.Resolved `json:"style"`
	Header   Header         `json:"header"`
	Sections []Section      `json:"sections"`
}

type Header struct {
	Name        string   `json:"name"`
	JobTitle    string   `json:"job_title,omitempty"`
	Contact     []string `json:"contact,omitempty"`
	ContactLine string   `json:"contact_line,omitempty"`
	Alignment   string   `json:"alignment"`
}

// Text is a leaf string. Field is set when the value can be edited in place and holds the
// editor path that addresses it.
type Text struct {
	Value string `json:"value"`
	Field string `json:"field,omitempty"`
}

// Entry is one item of an experience, education or projects section.
type Entry struct {
	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
	Meta     string `json:"meta,omitempty"`
	Body     []Text `json:"body,omitempty"`
	// Bulleted renders Body as a list; otherwise Body holds one paragraph.
	Bulleted bool `json:"bulleted"`
}

// Section is one rendered block. Exactly one of Paragraph, Entries and Lines is populated.
type Section struct {
	ID        customization.SectionID `json:"id"`
	Title     string                  `json:"title"`
	Paragraph *Text                   `json:"paragraph,omitempty"`
	Entries   []Entry                 `json:"entries,omitempty"`
	Lines     []Text                  `json:"lines,omitempty"`
	AsList    bool                    `json:"as_list"`
}

// Build lays out doc. Hidden sections are skipped, the rest follow their configured order,
// and a section with nothing to show is left out entirely.
func Build(doc resume.Document, resolved style.Resolved, sections []customization.SectionConfig) Document {
	out := Document{
		Style:    resolved,
		Header:   buildHeader(doc, resolved),
		Sections: []Section{},
	}
	for _, sc := range customization.SortedSections(sections) {
		if !sc.Visible {
			continue
		}
		sec, ok := buildSection(doc, resolved, sc)
		if !ok {
			continue
		}
		sec.ID = sc.ID
		sec.Title = sc.Title()
		out.Sections = append(out.Sections, sec)
	}
	return out
}

func buildHeader(doc resume.Document, resolved style.Resolved) Header {
	values := map[style.ContactField]string{
		style.ContactEmail:     doc.Email,
		style.ContactPhone:     doc.Phone,
		style.ContactLocation:  doc.Location,
		style.ContactLinkedIn:  doc.LinkedIn,
		style.ContactPortfolio: doc.Portfolio,
	}
	var contact []string
	for _, f := range resolved.VisibleContacts {
		if v := strings.TrimSpace(values[f]); v != "" {
			contact = append(contact, v)
		}
	}
	return Header{
		Name:        strings.TrimSpace(doc.FullName),
		JobTitle:    strings.TrimSpace(doc.JobTitle),
		Contact:     contact,
		ContactLine: strings.Join(contact, resolved.ContactSeparator),
		Alignment:   resolved.HeaderAlignment,
	}
}

func buildSection(doc resume.Document, resolved style.Resolved, sc customization.SectionConfig) (Section, bool) {
	switch sc.ID {
	case customization.SectionSummary:
		return paragraph(doc.Summary, "summary")
	case customization.SectionCertifications:
		return paragraph(doc.Certifications, "certifications")
	case customization.SectionExperience:
		return entries(experienceEntries(doc.Experiences, sc))
	case customization.SectionEducation:
		return entries(educationEntries(doc.Education))
	case customization.SectionProjects:
		return entries(projectEntries(doc.Projects))
	case customization.SectionSkills:
		return lines(resolved.Skills.SkillLines(doc.Skills), false)
	case customization.SectionAchievements:
		return lines(doc.Achievements, true)
	case customization.SectionPublications:
		return lines(doc.Publications, true)
	default:
		return Section{}, false
	}
}

func paragraph(value, field string) (Section, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Section{}, false
	}
	return Section{Paragraph: &Text{Value: value, Field: field}}, true
}

func entries(list []Entry) (Section, bool) {
	if len(list) == 0 {
		return Section{}, false
	}
	return Section{Entries: list}, true
}

func lines(values []string, asList bool) (Section, bool) {
	var out []Text
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, Text{Value: v})
		}
	}
	if len(out) == 0 {
		return Section{}, false
	}
	return Section{Lines: out, AsList: asList}, true
}

func experienceEntries(list []resume.Experience, sc customization.SectionConfig) []Entry {
	var out []Entry
	for i, exp := range list {
		bullets := exp.Bullets
		if sc.BulletLimit > 0 && len(bullets) > sc.BulletLimit {
			bullets = bullets[:sc.BulletLimit]
		}

		var body []Text
		for j, b := range bullets {
			if b = strings.TrimSpace(b); b != "" {
				body = append(body, Text{Value: b, Field: BulletPath(i, j)})
			}
		}
		if !sc.UseBullets && len(body) > 0 {
			joined := make([]string, len(body))
			for k, t := range body {
				joined[k] = t.Value
			}
			body = []Text{{Value: strings.Join(joined, " ")}}
		}

		e := Entry{
			Title:    strings.TrimSpace(exp.Role),
			Subtitle: strings.TrimSpace(exp.Company),
			Meta:     strings.TrimSpace(exp.Duration),
			Body:     body,
			Bulleted: sc.UseBullets,
		}
		if e.Title == "" && e.Subtitle == "" && e.Meta == "" && len(e.Body) == 0 {
			continue
		}
		out = append(out, e)
	}
	return out
}

func educationEntries(list []resume.Education) []Entry {
	var out []Entry
	for _, ed := range list {
		e := Entry{
			Title:    strings.TrimSpace(ed.Degree),
			Subtitle: strings.TrimSpace(ed.Institution),
			Meta:     strings.TrimSpace(ed.Year),
		}
		if e.Title == "" && e.Subtitle == "" && e.Meta == "" {
			continue
		}
		out = append(out, e)
	}
	return out
}

func projectEntries(list []resume.Project) []Entry {
	var out []Entry
	for i, p := range list {
		e := Entry{Title: strings.TrimSpace(p.Name)}
		if d := strings.TrimSpace(p.Description); d != "" {
			e.Body = []Text{{Value: d, Field: ProjectDescriptionPath(i)}}
		}
		if e.Title == "" && len(e.Body) == 0 {
			continue
		}
		out = append(out, e)
	}
	return out
}

// BulletPath is the editor path of bullet j of experience i.
func BulletPath(i, j int) string {
	return fmt.Sprintf("experience.%d.bullets.%d", i, j)
}

// ProjectDescriptionPath is the editor path of the description of project i.
func ProjectDescriptionPath(i int) string {
	return fmt.Sprintf("project.%d.description", i)
}
