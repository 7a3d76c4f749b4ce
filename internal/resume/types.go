package resume

import "strings"

// Document is the structured résumé content stored in a record's rendered_content column.
// JSON keys follow the generation service contract.
type Document struct {
	FullName       string       `json:"fullName"`
	JobTitle       string       `json:"jobTitle"`
	Email          string       `json:"email,omitempty"`
	Phone          string       `json:"phone,omitempty"`
	Location       string       `json:"location,omitempty"`
	LinkedIn       string       `json:"linkedIn,omitempty"`
	Portfolio      string       `json:"portfolio,omitempty"`
	Summary        string       `json:"summary"`
	Experiences    []Experience `json:"experiences"`
	Education      []Education  `json:"education"`
	Skills         []string     `json:"skills"`
	Projects       []Project    `json:"projects"`
	Certifications string       `json:"certifications"`
	Achievements   []string     `json:"achievements,omitempty"`
	Publications   []string     `json:"publications,omitempty"`
}

// Experience is one position with its achievement bullets.
type Experience struct {
	Role     string   `json:"role"`
	Company  string   `json:"company"`
	Duration string   `json:"duration"`
	Bullets  []string `json:"bullets"`
}

// Education is one degree entry.
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}

// Project is one portfolio entry.
type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Normalize replaces nil collections with empty ones so that every list field exists.
func (d *Document) Normalize() {
	if d.Experiences == nil {
		d.Experiences = []Experience{}
	}
	for i := range d.Experiences {
		if d.Experiences[i].Bullets == nil {
			d.Experiences[i].Bullets = []string{}
		}
	}
	if d.Education == nil {
		d.Education = []Education{}
	}
	if d.Skills == nil {
		d.Skills = []string{}
	}
	if d.Projects == nil {
		d.Projects = []Project{}
	}
	if d.Achievements == nil {
		d.Achievements = []string{}
	}
	if d.Publications == nil {
		d.Publications = []string{}
	}
}

// Clone returns a deep copy so that edits on the copy never alias the original slices.
func (d Document) Clone() Document {
	out := d
	out.Experiences = make([]Experience, len(d.Experiences))
	for i, exp := range d.Experiences {
		exp.Bullets = append([]string(nil), exp.Bullets...)
		out.Experiences[i] = exp
	}
	out.Education = append([]Education(nil), d.Education...)
	out.Skills = append([]string(nil), d.Skills...)
	out.Projects = append([]Project(nil), d.Projects...)
	out.Achievements = append([]string(nil), d.Achievements...)
	out.Publications = append([]string(nil), d.Publications...)
	out.Normalize()
	return out
}

// FormInput is the step-by-step form payload sent to the generation service.
type FormInput struct {
	FullName       string           `json:"fullName"`
	JobTitle       string           `json:"jobTitle"`
	Email          string           `json:"email,omitempty"`
	Phone          string           `json:"phone,omitempty"`
	Location       string           `json:"location,omitempty"`
	Summary        string           `json:"summary"`
	Experiences    []FormExperience `json:"experiences"`
	Education      []Education      `json:"education"`
	Skills         string           `json:"skills"`
	Projects       []Project        `json:"projects"`
	Certifications string           `json:"certifications"`
}

// FormExperience carries free-text responsibilities before they are split into bullets.
type FormExperience struct {
	Role             string `json:"role"`
	Company          string `json:"company"`
	Duration         string `json:"duration"`
	Responsibilities string `json:"responsibilities"`
}

// Fallback converts form input into a document without any rewriting. Responsibilities are
// split on sentence boundaries and skills on commas.
func (f FormInput) Fallback() Document {
	doc := Document{
		FullName:       strings.TrimSpace(f.FullName),
		JobTitle:       strings.TrimSpace(f.JobTitle),
		Email:          strings.TrimSpace(f.Email),
		Phone:          strings.TrimSpace(f.Phone),
		Location:       strings.TrimSpace(f.Location),
		Summary:        strings.TrimSpace(f.Summary),
		Education:      append([]Education(nil), f.Education...),
		Projects:       append([]Project(nil), f.Projects...),
		Certifications: strings.TrimSpace(f.Certifications),
	}
	for _, exp := range f.Experiences {
		doc.Experiences = append(doc.Experiences, Experience{
			Role:     exp.Role,
			Company:  exp.Company,
			Duration: exp.Duration,
			Bullets:  splitNonEmpty(exp.Responsibilities, "."),
		})
	}
	doc.Skills = splitNonEmpty(f.Skills, ",")
	doc.Normalize()
	return doc
}

func splitNonEmpty(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
