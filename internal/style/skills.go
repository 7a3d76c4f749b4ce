package style

import (
	"strings"
	"unicode"

	"resumeKit/internal/customization"
)

// Category is one bucket of the grouped skills layout.
type Category string

const (
	CategoryLanguages  Category = "languages"
	CategoryFrameworks Category = "frameworks"
	CategoryDatabases  Category = "databases"
	CategoryCloud      Category = "cloud"
	CategoryTools      Category = "tools"
	CategoryOther      Category = "other"
)

var categoryLabels = map[Category]string{
	CategoryLanguages:  "Languages",
	CategoryFrameworks: "Frameworks",
	CategoryDatabases:  "Databases",
	CategoryCloud:      "Cloud",
	CategoryTools:      "Tools",
	CategoryOther:      "Other",
}

// Label returns the display label of c.
func (c Category) Label() string { return categoryLabels[c] }

// categoryOrder is the render order of grouped skills.
var categoryOrder = []Category{
	CategoryLanguages, CategoryFrameworks, CategoryDatabases, CategoryCloud, CategoryTools, CategoryOther,
}

// CategoryRule assigns a skill to Category when Match reports true.
type CategoryRule struct {
	Category Category
	Match    func(skill string) bool
}

// Keyword lists, matched case-insensitively. Keywords of three characters or fewer must
// equal a whole word of the skill; longer ones match as substrings.
var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{CategoryLanguages, []string{
		"javascript", "typescript", "python", "java", "golang", "go", "rust", "ruby", "php",
		"c++", "c#", "kotlin", "swift", "scala", "perl", "haskell", "elixir", "dart", "html",
		"css", "bash", "shell", "matlab", "lua", "objective-c",
	}},
	{CategoryFrameworks, []string{
		"react", "angular", "vue", "svelte", "next.js", "nuxt", "node", "express", "django",
		"flask", "fastapi", "spring", "rails", "laravel", ".net", "jquery", "redux", "tailwind",
		"bootstrap", "flutter", "graphql", "tensorflow", "pytorch", "gin", "fiber",
	}},
	{CategoryDatabases, []string{
		"sql", "nosql", "postgres", "mysql", "mongodb", "redis", "sqlite", "oracle", "dynamodb",
		"cassandra", "elasticsearch", "mariadb", "firebase", "supabase", "neo4j",
	}},
	{CategoryCloud, []string{
		"aws", "azure", "gcp", "google cloud", "heroku", "vercel", "netlify", "cloudflare",
		"lambda", "ec2", "s3", "digitalocean",
	}},
	{CategoryTools, []string{
		"docker", "kubernetes", "git", "github", "gitlab", "jenkins", "terraform", "ansible",
		"jira", "figma", "webpack", "vite", "linux", "nginx", "postman", "ci/cd", "grafana",
		"prometheus", "kafka", "rabbitmq",
	}},
}

// CategoryRules is evaluated in order; the first matching rule wins and skills matching no
// rule fall into CategoryOther.
var CategoryRules = buildRules()

func buildRules() []CategoryRule {
	rules := make([]CategoryRule, 0, len(categoryKeywords))
	for _, ck := range categoryKeywords {
		rules = append(rules, CategoryRule{Category: ck.category, Match: keywordMatcher(ck.keywords)})
	}
	return rules
}

func keywordMatcher(keywords []string) func(string) bool {
	return func(skill string) bool {
		lower := strings.ToLower(skill)
		words := strings.FieldsFunc(lower, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
		})
		for _, kw := range keywords {
			if len(kw) > 3 {
				if strings.Contains(lower, kw) {
					return true
				}
				continue
			}
			for _, w := range words {
				if w == kw {
					return true
				}
			}
		}
		return false
	}
}

// Categorize returns the category of skill.
func Categorize(skill string) Category {
	for _, rule := range CategoryRules {
		if rule.Match(skill) {
			return rule.Category
		}
	}
	return CategoryOther
}

// Group is one rendered line of the grouped layout.
type Group struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Skills   []string `json:"skills"`
}

// String renders "Label: a, b".
func (g Group) String() string {
	return g.Label + ": " + strings.Join(g.Skills, ", ")
}

// GroupSkills buckets skills by category, keeping input order inside each bucket. Empty
// buckets are omitted.
func GroupSkills(skills []string) []Group {
	buckets := make(map[Category][]string, len(categoryOrder))
	for _, s := range skills {
		if s = strings.TrimSpace(s); s == "" {
			continue
		}
		c := Categorize(s)
		buckets[c] = append(buckets[c], s)
	}
	var groups []Group
	for _, c := range categoryOrder {
		if len(buckets[c]) == 0 {
			continue
		}
		groups = append(groups, Group{Category: c, Label: c.Label(), Skills: buckets[c]})
	}
	return groups
}

// SkillLines renders skills as text lines: one line per group for the grouped layout and a
// single joined line otherwise. No skills yields no lines.
func (s SkillsStyle) SkillLines(skills []string) []string {
	clean := make([]string, 0, len(skills))
	for _, sk := range skills {
		if sk = strings.TrimSpace(sk); sk != "" {
			clean = append(clean, sk)
		}
	}
	if len(clean) == 0 {
		return nil
	}
	if !s.Overridden {
		return []string{strings.Join(clean, s.ThemeSeparator)}
	}
	switch s.Display {
	case customization.SkillsGrouped:
		groups := GroupSkills(clean)
		lines := make([]string, len(groups))
		for i, g := range groups {
			lines[i] = g.String()
		}
		return lines
	case customization.SkillsBullets:
		return []string{strings.Join(clean, " • ")}
	default:
		return []string{strings.Join(clean, ", ")}
	}
}
