package render

import (
	"fmt"
	"html/template"
	"io"
)

// ReadyMarkerID is the element id the capture step waits for before taking a screenshot.
const ReadyMarkerID = "resume-render-ready"

// PageWidthPx is the A4 page width at 96 DPI.
const PageWidthPx = 794

// documentTemplate is shared by the preview endpoint and the export worker so that both see
// the same page.
const documentTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{.Header.Name}}</title>
<style>
  html, body { margin: 0; padding: 0; background: #ffffff; }
  .resume-page {
    width: {{pageWidth}}px;
    min-height: 1123px;
    box-sizing: border-box;
    padding: {{css .Style.PageMargin}};
    font-family: {{css .Style.FontFamily}};
    font-size: {{css .Style.BodyFontSize}};
    line-height: {{css .Style.LineHeight}};
    letter-spacing: {{css .Style.LetterSpacing}};
    color: {{css .Style.BodyTextColor}};
    background: #ffffff;
  }
  .resume-header {
    text-align: {{css .Style.HeaderAlignment}};
    margin-bottom: {{css .Style.HeaderMarginBottom}};
    {{- if .Style.HeaderBorderBottom}}
    padding-bottom: 0.75rem;
    border-bottom: 2px solid {{css .Style.AccentColor}};
    {{- end}}
  }
  .resume-name {
    margin: 0;
    font-size: {{css .Style.NameFontSize}};
    font-weight: {{css .Style.HeaderFontWeight}};
    color: {{css .Style.HeaderTextColor}};
  }
  .resume-job-title { margin: 0.25rem 0 0; color: {{css .Style.AccentColor}}; }
  .resume-contact { margin: 0.5rem 0 0; color: {{css .Style.MutedTextColor}}; white-space: pre-wrap; }
  .resume-section { margin-bottom: {{css .Style.SectionSpacing}}; }
  .resume-section-title {
    margin: 0 0 0.5rem;
    font-size: {{css .Style.SectionFontSize}};
    font-weight: {{css .Style.TitleFontWeight}};
    text-transform: {{css .Style.TitleTextTransform}};
    letter-spacing: {{css .Style.TitleLetterSpacing}};
    {{- if .Style.TitleAccentColor}}
    color: {{css .Style.AccentColor}};
    {{- else}}
    color: {{css .Style.HeaderTextColor}};
    {{- end}}
    {{- if .Style.TitleBorderBottom}}
    padding-bottom: 0.25rem;
    border-bottom: 1px solid {{css .Style.AccentColor}};
    {{- end}}
  }
  .resume-entry { margin-bottom: 0.75rem; }
  .resume-entry-head { display: flex; justify-content: space-between; gap: 1rem; }
  .resume-entry-title { font-weight: 600; }
  .resume-entry-meta, .resume-entry-subtitle { color: {{css .Style.MutedTextColor}}; }
  .resume-list { margin: 0.25rem 0 0; padding-left: 1.25rem; }
  .resume-list li { margin-bottom: {{css .Style.BulletSpacing}}; }
  .resume-lines p { margin: 0 0 {{css .Style.BulletSpacing}}; }
  p { margin: 0; }
</style>
</head>
<body>
<div class="resume-page" id="resume-root">
  <header class="resume-header">
    <h1 class="resume-name">{{.Header.Name}}</h1>
    {{- with .Header.JobTitle}}
    <p class="resume-job-title">{{.}}</p>
    {{- end}}
    {{- with .Header.ContactLine}}
    <p class="resume-contact">{{.}}</p>
    {{- end}}
  </header>
  {{- range .Sections}}
  <section class="resume-section" data-section="{{.ID}}">
    <h2 class="resume-section-title">{{.Title}}</h2>
    {{- with .Paragraph}}
    <p{{template "field" .}}>{{.Value}}</p>
    {{- end}}
    {{- range .Entries}}
    <div class="resume-entry">
      <div class="resume-entry-head">
        <span>
          {{- if .Title}}<span class="resume-entry-title">{{.Title}}</span>{{end}}
          {{- if .Subtitle}}{{if .Title}}, {{end}}<span class="resume-entry-subtitle">{{.Subtitle}}</span>{{end -}}
        </span>
        {{- with .Meta}}
        <span class="resume-entry-meta">{{.}}</span>
        {{- end}}
      </div>
      {{- if .Body}}
      {{- if .Bulleted}}
      <ul class="resume-list">
        {{- range .Body}}
        <li{{template "field" .}}>{{.Value}}</li>
        {{- end}}
      </ul>
      {{- else}}
      {{- range .Body}}
      <p{{template "field" .}}>{{.Value}}</p>
      {{- end}}
      {{- end}}
      {{- end}}
    </div>
    {{- end}}
    {{- if .Lines}}
    {{- if .AsList}}
    <ul class="resume-list">
      {{- range .Lines}}
      <li>{{.Value}}</li>
      {{- end}}
    </ul>
    {{- else}}
    <div class="resume-lines">
      {{- range .Lines}}
      <p>{{.Value}}</p>
      {{- end}}
    </div>
    {{- end}}
    {{- end}}
  </section>
  {{- end}}
</div>
<div id="{{readyID}}"></div>
</body>
</html>
{{define "field"}}{{with .Field}} data-field="{{.}}"{{end}}{{end}}`

var pageTemplate = template.Must(template.New("resume").Funcs(template.FuncMap{
	// Style values come from the theme catalog and validated customization.
	"css":       func(v string) template.CSS { return template.CSS(v) },
	"pageWidth": func() int { return PageWidthPx },
	"readyID":   func() string { return ReadyMarkerID },
}).Parse(documentTemplate))

// WriteHTML writes doc as a self-contained A4-width HTML page.
func WriteHTML(w io.Writer, doc Document) error {
	if err := pageTemplate.Execute(w, doc); err != nil {
		return fmt.Errorf("execute resume template: %w", err)
	}
	return nil
}
