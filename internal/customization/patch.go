package customization

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"
)

// colorPattern admits hex, named and functional CSS colors and nothing that could end a
// declaration.
var colorPattern = regexp.MustCompile(`^[#A-Za-z0-9(),.%\s-]+$`)

// ValidColor reports whether v is an acceptable accent color value.
func ValidColor(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && len(v) <= 64 && colorPattern.MatchString(v)
}

// Patch types mirror the settings records field for field. A nil field is absent from the
// patch; json tags match the record so that record, patch and flags share one key space.

type TypographyPatch struct {
	FontFamily            *FontFamily `json:"font_family,omitempty"`
	NameFontSize          *float64    `json:"name_font_size,omitempty"`
	SectionHeaderFontSize *float64    `json:"section_header_font_size,omitempty"`
	BodyFontSize          *float64    `json:"body_font_size,omitempty"`
	LineHeight            *float64    `json:"line_height,omitempty"`
	LetterSpacing         *float64    `json:"letter_spacing,omitempty"`
}

func (p TypographyPatch) Validate() error {
	if p.FontFamily != nil {
		if _, ok := fontStacks[*p.FontFamily]; !ok {
			return fmt.Errorf("%w: font_family %q", ErrInvalidValue, *p.FontFamily)
		}
	}
	for name, v := range map[string]*float64{
		"name_font_size":           p.NameFontSize,
		"section_header_font_size": p.SectionHeaderFontSize,
		"body_font_size":           p.BodyFontSize,
		"line_height":              p.LineHeight,
	} {
		if v != nil && !positive(*v) {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidValue, name)
		}
	}
	if p.LetterSpacing != nil && !finite(*p.LetterSpacing) {
		return fmt.Errorf("%w: letter_spacing", ErrInvalidValue)
	}
	return nil
}

type LayoutPatch struct {
	PageMargin     *float64       `json:"page_margin,omitempty"`
	SectionSpacing *float64       `json:"section_spacing,omitempty"`
	BulletSpacing  *float64       `json:"bullet_spacing,omitempty"`
	DensityPreset  *DensityPreset `json:"density_preset,omitempty"`
}

func (p LayoutPatch) Validate() error {
	if p.DensityPreset != nil {
		if _, ok := densityPresets[*p.DensityPreset]; !ok {
			return fmt.Errorf("%w: density_preset %q", ErrInvalidValue, *p.DensityPreset)
		}
	}
	for name, v := range map[string]*float64{
		"page_margin":     p.PageMargin,
		"section_spacing": p.SectionSpacing,
		"bullet_spacing":  p.BulletSpacing,
	} {
		if v != nil && (!finite(*v) || *v < 0) {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidValue, name)
		}
	}
	return nil
}

type ColorsPatch struct {
	AccentColor *string `json:"accent_color,omitempty"`
}

func (p ColorsPatch) Validate() error {
	if p.AccentColor != nil && !ValidColor(*p.AccentColor) {
		return fmt.Errorf("%w: accent_color %q", ErrInvalidValue, *p.AccentColor)
	}
	return nil
}

type HeaderPatch struct {
	ShowEmail      *bool            `json:"show_email,omitempty"`
	ShowPhone      *bool            `json:"show_phone,omitempty"`
	ShowLocation   *bool            `json:"show_location,omitempty"`
	ShowLinkedIn   *bool            `json:"show_linkedin,omitempty"`
	ShowPortfolio  *bool            `json:"show_portfolio,omitempty"`
	Alignment      *HeaderAlignment `json:"alignment,omitempty"`
	SeparatorStyle *SeparatorStyle  `json:"separator_style,omitempty"`
}

func (p HeaderPatch) Validate() error {
	if p.Alignment != nil && *p.Alignment != AlignLeft && *p.Alignment != AlignCenter {
		return fmt.Errorf("%w: alignment %q", ErrInvalidValue, *p.Alignment)
	}
	if p.SeparatorStyle != nil {
		switch *p.SeparatorStyle {
		case SeparatorDot, SeparatorLine, SeparatorSpace:
		default:
			return fmt.Errorf("%w: separator_style %q", ErrInvalidValue, *p.SeparatorStyle)
		}
	}
	return nil
}

type SkillsPatch struct {
	DisplayStyle *SkillsDisplayStyle `json:"display_style,omitempty"`
}

func (p SkillsPatch) Validate() error {
	if p.DisplayStyle != nil {
		switch *p.DisplayStyle {
		case SkillsComma, SkillsGrouped, SkillsBullets:
		default:
			return fmt.Errorf("%w: display_style %q", ErrInvalidValue, *p.DisplayStyle)
		}
	}
	return nil
}

// ApplyPatch merges every present field of patch into a copy of old and returns the copy
// together with the json keys that were present, in declaration order. old is not modified.
// Patch fields are matched to record fields by json name; a patch field without a
// counterpart in T panics.
func ApplyPatch[T any](old T, patch any) (T, []string) {
	next := old
	dst := reflect.ValueOf(&next).Elem()

	src := reflect.ValueOf(patch)
	if src.Kind() == reflect.Pointer {
		if src.IsNil() {
			return next, nil
		}
		src = src.Elem()
	}

	var keys []string
	for i := 0; i < src.NumField(); i++ {
		field := src.Field(i)
		if field.Kind() != reflect.Pointer || field.IsNil() {
			continue
		}
		key := jsonKey(src.Type().Field(i))
		target := fieldByKey(dst, key)
		if !target.IsValid() {
			panic(fmt.Sprintf("customization: %s has no field %q", dst.Type(), key))
		}
		target.Set(field.Elem().Convert(target.Type()))
		keys = append(keys, key)
	}
	return next, keys
}

// markOverridden sets the bool fields of flags named by keys.
func markOverridden(flags any, keys []string) {
	v := reflect.ValueOf(flags).Elem()
	for _, key := range keys {
		f := fieldByKey(v, key)
		if !f.IsValid() || f.Kind() != reflect.Bool {
			panic(fmt.Sprintf("customization: %s has no flag %q", v.Type(), key))
		}
		f.SetBool(true)
	}
}

func fieldByKey(v reflect.Value, key string) reflect.Value {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if jsonKey(t.Field(i)) == key {
			return v.Field(i)
		}
	}
	return reflect.Value{}
}

func jsonKey(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" {
		return f.Name
	}
	return name
}

func positive(v float64) bool { return finite(v) && v > 0 }

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
