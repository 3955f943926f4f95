// Package pdf renders stored CVs into simple single-column PDF documents.
package pdf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"jobready-portal/internal/models"

	"github.com/phpdave11/gofpdf"
)

// personalInfo is the subset of the free-form personal-info blob the
// renderer understands. Unknown keys are ignored; every field may be empty.
type personalInfo struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Summary  string `json:"summary"`
}

// Renderer turns CVs into PDF bytes
type Renderer struct{}

// NewRenderer creates a CV PDF renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render produces the PDF for a CV. It tolerates missing personal info and
// empty sections; any valid stored CV renders.
func (r *Renderer) Render(cv *models.CV) ([]byte, error) {
	var info personalInfo
	if cv.PersonalInfo != "" {
		// Malformed blobs fall back to an empty header rather than failing
		_ = json.Unmarshal([]byte(cv.PersonalInfo), &info)
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(20, 20, 20)
	doc.AddPage()

	name := info.FullName
	if name == "" {
		name = cv.Title
	}
	doc.SetFont("Helvetica", "B", 20)
	doc.CellFormat(0, 10, name, "", 1, "L", false, 0, "")

	contact := joinNonEmpty(" | ", info.Phone, info.Email, info.Address)
	if contact != "" {
		doc.SetFont("Helvetica", "", 10)
		doc.SetTextColor(90, 90, 90)
		doc.CellFormat(0, 6, contact, "", 1, "L", false, 0, "")
		doc.SetTextColor(0, 0, 0)
	}
	doc.Ln(4)

	if info.Summary != "" {
		doc.SetFont("Helvetica", "", 10)
		doc.MultiCell(0, 5, info.Summary, "", "L", false)
		doc.Ln(4)
	}

	if len(cv.Education) > 0 {
		r.sectionHeading(doc, "Education")
		for _, entry := range cv.Education {
			years := fmt.Sprintf("%d", entry.StartYear)
			if entry.EndYear != nil {
				years = fmt.Sprintf("%d - %d", entry.StartYear, *entry.EndYear)
			}
			doc.SetFont("Helvetica", "B", 11)
			doc.CellFormat(0, 6, entry.Degree, "", 1, "L", false, 0, "")
			doc.SetFont("Helvetica", "", 10)
			doc.CellFormat(0, 5, joinNonEmpty(", ", entry.Institution, years), "", 1, "L", false, 0, "")
			if entry.Description != "" {
				doc.MultiCell(0, 5, entry.Description, "", "L", false)
			}
			doc.Ln(2)
		}
	}

	if len(cv.Experience) > 0 {
		r.sectionHeading(doc, "Work Experience")
		for _, entry := range cv.Experience {
			period := entry.StartDate.Format("Jan 2006")
			if entry.IsCurrent {
				period += " - Present"
			} else if entry.EndDate != nil {
				period += " - " + entry.EndDate.Format("Jan 2006")
			}
			doc.SetFont("Helvetica", "B", 11)
			doc.CellFormat(0, 6, entry.Position, "", 1, "L", false, 0, "")
			doc.SetFont("Helvetica", "", 10)
			doc.CellFormat(0, 5, joinNonEmpty(", ", entry.Company, period), "", 1, "L", false, 0, "")
			if entry.Description != "" {
				doc.MultiCell(0, 5, entry.Description, "", "L", false)
			}
			doc.Ln(2)
		}
	}

	if len(cv.Skills) > 0 {
		r.sectionHeading(doc, "Skills")
		doc.SetFont("Helvetica", "", 10)
		for _, skill := range cv.Skills {
			line := skill.SkillName
			if skill.ProficiencyLevel != "" {
				line += " (" + skill.ProficiencyLevel + ")"
			}
			doc.CellFormat(0, 5, "- "+line, "", 1, "L", false, 0, "")
		}
		doc.Ln(2)
	}

	if len(cv.Languages) > 0 {
		r.sectionHeading(doc, "Languages")
		doc.SetFont("Helvetica", "", 10)
		for _, lang := range cv.Languages {
			line := lang.Language
			if lang.Proficiency != "" {
				line += " (" + lang.Proficiency + ")"
			}
			doc.CellFormat(0, 5, "- "+line, "", 1, "L", false, 0, "")
		}
		doc.Ln(2)
	}

	if len(cv.References) > 0 {
		r.sectionHeading(doc, "References")
		doc.SetFont("Helvetica", "", 10)
		for _, ref := range cv.References {
			doc.CellFormat(0, 5, joinNonEmpty(", ", ref.Name, ref.Relationship, ref.Phone, ref.Email), "", 1, "L", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) sectionHeading(doc *gofpdf.Fpdf, title string) {
	doc.SetFont("Helvetica", "B", 13)
	doc.CellFormat(0, 8, title, "B", 1, "L", false, 0, "")
	doc.Ln(2)
}

func joinNonEmpty(sep string, parts ...string) string {
	nonEmpty := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, sep)
}
