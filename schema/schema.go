// Package schema ships static upload-requirement presets for common Indian
// competitive exams.  A preset records what the application portal demands
// per document slot (format, size band, dimensions) and can be turned
// directly into a transform request.
package schema

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/AbhinavPrakashCoading/Dockit-sub000/core"
	"github.com/AbhinavPrakashCoading/Dockit-sub000/utils"
)

// Document slot names as the portals spell them.
const (
	Photograph      = "photograph"
	Signature       = "signature"
	ThumbImpression = "thumb_impression"
)

// SizeRange is the portal's accepted size band in kilobytes.
type SizeRange struct {
	MinKB int `json:"min"`
	MaxKB int `json:"max"`
}

// Requirement captures one document slot's upload constraints.
type Requirement struct {
	// Formats lists accepted upload formats as the portal spells them
	// ("JPG", "JPEG", "PNG").
	Formats []string  `json:"format"`
	SizeKB  SizeRange `json:"size_kb"`

	// Dimensions is the portal's free-text dimension spec.  Pixel specs
	// ("200x230 pixels") are machine-readable via PixelDimensions; physical
	// specs ("3.5x4.5 cm") and prose ("Passport size") are advisory only.
	Dimensions string `json:"dimensions,omitempty"`

	Color      string   `json:"color,omitempty"`
	Background string   `json:"background,omitempty"`
	Notes      []string `json:"notes,omitempty"`
}

// Document is one upload slot in an exam's application form.
type Document struct {
	Type        string      `json:"type"`
	Requirement Requirement `json:"requirements"`
}

// Schema is the full set of document requirements for one exam.
type Schema struct {
	Exam      string     `json:"exam"`
	Documents []Document `json:"documents"`
}

// Lookup matches an exam name against the preset tables and returns its
// schema.  Unknown exams get the generic preset.  The match is keyword
// based: "ibps-po-2026", "SBI Clerk", and "rbi_grade_b" all resolve to the
// banking preset.
func Lookup(exam string) Schema {
	lower := strings.ToLower(exam)

	var docs []Document
	switch {
	case containsAny(lower, "ibps", "bank", "sbi", "rbi"):
		docs = bankingDocs()
	case strings.Contains(lower, "ssc"):
		docs = sscDocs()
	case containsAny(lower, "neet", "jee", "gate"):
		docs = entranceDocs()
	case containsAny(lower, "upsc", "civil", "ias", "ips"):
		docs = civilServicesDocs()
	default:
		docs = genericDocs()
	}

	return Schema{Exam: normalizeExam(exam), Documents: docs}
}

// Document returns the slot with the given type name.
func (s Schema) Document(docType string) (Document, bool) {
	for _, d := range s.Documents {
		if d.Type == docType {
			return d, true
		}
	}
	return Document{}, false
}

// Build produces a ready transform request for one of the schema's document
// slots.  The source MIME is sniffed from magic bytes.
func (s Schema) Build(source []byte, docType string) (*core.TransformRequest, error) {
	d, ok := s.Document(docType)
	if !ok {
		return nil, fmt.Errorf("schema: exam %q has no %q document slot", s.Exam, docType)
	}
	return &core.TransformRequest{
		Source:           source,
		SourceMIME:       utils.DetectMIME(source),
		TargetMIME:       d.Requirement.TargetMIME(),
		MaxSizeKB:        d.Requirement.SizeKB.MaxKB,
		MinSizeKB:        d.Requirement.SizeKB.MinKB,
		TargetDimensions: d.Requirement.PixelDimensions(),
		DocumentType:     d.DocumentType(),
		ExamContext:      s.Exam,
	}, nil
}

// DocumentType maps the portal's slot name onto the compression document
// class.  Thumb impressions are biometric identity records and compress
// under the id-proof floor.
func (d Document) DocumentType() core.DocumentType {
	switch d.Type {
	case Photograph:
		return core.DocPhoto
	case Signature:
		return core.DocSignature
	case ThumbImpression:
		return core.DocIDProof
	default:
		return core.DocGeneric
	}
}

// PixelDimensions parses the requirement's dimension spec when it is given
// in pixels ("200x230 pixels").  Physical units and prose return nil.
func (r Requirement) PixelDimensions() *core.Dimensions {
	spec := strings.ToLower(strings.TrimSpace(r.Dimensions))
	spec = strings.TrimSuffix(spec, " pixels")
	spec = strings.TrimSuffix(spec, "px")
	spec = strings.TrimSpace(spec)

	w, h, err := utils.ParseDimensions(spec)
	if err != nil || w <= 0 || h <= 0 {
		return nil
	}
	return &core.Dimensions{Width: w, Height: h}
}

// TargetMIME returns the content type of the first accepted format.
func (r Requirement) TargetMIME() string {
	for _, f := range r.Formats {
		switch strings.ToUpper(f) {
		case "JPG", "JPEG":
			return "image/jpeg"
		case "PNG":
			return "image/png"
		case "WEBP":
			return "image/webp"
		case "PDF":
			return "application/pdf"
		}
	}
	return "image/jpeg"
}

// ── preset tables ─────────────────────────────────────────────────────────────

func bankingDocs() []Document {
	return []Document{
		{
			Type: Photograph,
			Requirement: Requirement{
				Formats:    []string{"JPG", "JPEG"},
				SizeKB:     SizeRange{MinKB: 20, MaxKB: 50},
				Dimensions: "200x230 pixels",
				Color:      "color",
				Background: "light",
				Notes:      []string{"Recent colored photograph", "Passport size", "Clear face visibility"},
			},
		},
		{
			Type: Signature,
			Requirement: Requirement{
				Formats:    []string{"JPG", "JPEG"},
				SizeKB:     SizeRange{MinKB: 10, MaxKB: 20},
				Dimensions: "140x60 pixels",
				Background: "white",
				Notes:      []string{"Clear signature in black ink", "Sign on white paper"},
			},
		},
		{
			Type: ThumbImpression,
			Requirement: Requirement{
				Formats:    []string{"JPG", "JPEG"},
				SizeKB:     SizeRange{MinKB: 10, MaxKB: 20},
				Dimensions: "240x240 pixels",
				Background: "white",
				Notes:      []string{"Left thumb impression", "Clear impression on white paper"},
			},
		},
	}
}

func sscDocs() []Document {
	return []Document{
		{
			Type: Photograph,
			Requirement: Requirement{
				Formats:    []string{"JPEG"},
				SizeKB:     SizeRange{MinKB: 4, MaxKB: 40},
				Dimensions: "3.5x4.5 cm",
				Color:      "color",
				Background: "light",
				Notes:      []string{"Recent colored photograph", "Passport size"},
			},
		},
		{
			Type: Signature,
			Requirement: Requirement{
				Formats:    []string{"JPEG"},
				SizeKB:     SizeRange{MinKB: 1, MaxKB: 12},
				Dimensions: "4x2 cm",
				Background: "white",
				Notes:      []string{"Clear signature in black ink"},
			},
		},
	}
}

func entranceDocs() []Document {
	return []Document{
		{
			Type: Photograph,
			Requirement: Requirement{
				Formats:    []string{"JPG", "JPEG"},
				SizeKB:     SizeRange{MinKB: 10, MaxKB: 200},
				Dimensions: "Passport size",
				Color:      "color",
				Background: "white",
				Notes:      []string{"Recent photograph", "Face should be clearly visible", "No sunglasses or hat"},
			},
		},
		{
			Type: Signature,
			Requirement: Requirement{
				Formats:    []string{"JPG", "JPEG"},
				SizeKB:     SizeRange{MinKB: 4, MaxKB: 30},
				Background: "white",
				Notes:      []string{"Clear signature in blue or black ink"},
			},
		},
	}
}

func civilServicesDocs() []Document {
	return []Document{
		{
			Type: Photograph,
			Requirement: Requirement{
				Formats:    []string{"JPG", "JPEG"},
				SizeKB:     SizeRange{MinKB: 3, MaxKB: 50},
				Dimensions: "5x7 cm",
				Color:      "color",
				Background: "white",
				Notes:      []string{"Recent photograph", "Professional attire preferred", "Clear face visibility"},
			},
		},
		{
			Type: Signature,
			Requirement: Requirement{
				Formats:    []string{"JPG", "JPEG"},
				SizeKB:     SizeRange{MinKB: 1, MaxKB: 10},
				Dimensions: "4x2 cm",
				Background: "white",
				Notes:      []string{"Signature in black ink", "Sign on white paper"},
			},
		},
	}
}

func genericDocs() []Document {
	return []Document{
		{
			Type: Photograph,
			Requirement: Requirement{
				Formats:    []string{"JPG", "JPEG", "PNG"},
				SizeKB:     SizeRange{MinKB: 10, MaxKB: 100},
				Dimensions: "Passport size",
				Color:      "color",
				Notes:      []string{"Recent photograph", "Clear face visibility"},
			},
		},
		{
			Type: Signature,
			Requirement: Requirement{
				Formats:    []string{"JPG", "JPEG", "PNG"},
				SizeKB:     SizeRange{MinKB: 5, MaxKB: 50},
				Background: "white",
				Notes:      []string{"Clear signature"},
			},
		},
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func containsAny(s string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// normalizeExam turns "ibps-po_2026" into "Ibps Po 2026".
func normalizeExam(name string) string {
	cleaned := strings.NewReplacer("-", " ", "_", " ").Replace(name)
	words := strings.Fields(cleaned)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func capitalize(w string) string {
	runes := []rune(strings.ToLower(w))
	if len(runes) == 0 {
		return w
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
