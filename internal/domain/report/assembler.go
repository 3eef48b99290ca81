package report

import (
	"fmt"
	"strings"
)

// DominantLine is the overall body-line classification.
type DominantLine string

const (
	DominantStraight    DominantLine = "Straight"
	DominantCurved      DominantLine = "Curved"
	DominantCombination DominantLine = "Combination"
)

// DominantScale is the overall scale classification.
type DominantScale string

const (
	ScaleSmall  DominantScale = "Small"
	ScaleMedium DominantScale = "Medium"
	ScaleLarge  DominantScale = "Large"
)

const closingLine = "Remember, these are guidelines. The best style is one that makes you feel confident and comfortable!"

// ClassifyLine returns Straight or Curved when only that classification is
// present, Combination otherwise (including no answers).
func ClassifyLine(answers []LineAnswer) DominantLine {
	var straight, curved int
	for _, a := range answers {
		switch a.Classification {
		case LineStraight:
			straight++
		case LineCurved:
			curved++
		}
	}
	switch {
	case straight > 0 && curved == 0:
		return DominantStraight
	case curved > 0 && straight == 0:
		return DominantCurved
	default:
		return DominantCombination
	}
}

// ClassifyScale counts each answer once, as small, medium or large in that
// order of precedence. A scale wins only when its count is strictly greater
// than both others; ties resolve to Medium.
func ClassifyScale(answers []ScaleAnswer) DominantScale {
	var small, medium, large int
	for _, a := range answers {
		s := strings.ToLower(a.Answer)
		switch {
		case strings.Contains(s, "small"):
			small++
		case strings.Contains(s, "medium"):
			medium++
		case strings.Contains(s, "large"):
			large++
		}
	}
	switch {
	case large > small && large > medium:
		return ScaleLarge
	case small > large && small > medium:
		return ScaleSmall
	default:
		return ScaleMedium
	}
}

// Assemble renders the style report for q as markdown. It never fails: a
// classification with no advice yields a placeholder for that section.
func Assemble(q Questionnaire) string {
	var b strings.Builder
	b.WriteString("## Your Personalised Style Report\n\n")

	writeLineSection(&b, q.LineAnswers)
	b.WriteString("\n---\n")
	writeScaleSection(&b, q.ScaleAnswers)
	b.WriteString("\n---\n")
	writeShapeSection(&b, q.BodyShape)

	b.WriteString("\n" + closingLine + "\n")
	return b.String()
}

func writeLineSection(b *strings.Builder, answers []LineAnswer) {
	dominant := ClassifyLine(answers)

	b.WriteString("## Line Analysis Summary\n")
	for _, a := range answers {
		fmt.Fprintf(b, "- %s: %s (Classified as: %s)\n", a.BodyPart, a.Answer, a.Classification)
	}

	advice, ok := LookupLine(strings.ToLower(string(dominant)))
	if !ok {
		fmt.Fprintf(b, "\n### Dominant Line: %s\nNo specific advice found for this dominant line type in the dataset.\n", dominant)
		return
	}
	fmt.Fprintf(b, "\n### Your Dominant Line: %s\n%s\n", advice.Title, advice.Advice)
	for _, el := range advice.Elements {
		fmt.Fprintf(b, "\n**%s:**\n", capitalize(el.Name))
		for _, item := range el.Items {
			fmt.Fprintf(b, "  - %s\n", item)
		}
	}
}

func writeScaleSection(b *strings.Builder, answers []ScaleAnswer) {
	dominant := ClassifyScale(answers)

	b.WriteString("\n## Scale Assessment Summary\n")
	for _, a := range answers {
		fmt.Fprintf(b, "- %s: %s\n", a.Category, a.Answer)
	}

	advice, ok := LookupScale(strings.ToLower(string(dominant)))
	if !ok {
		fmt.Fprintf(b, "\n### Dominant Scale: %s\nNo specific advice found for this dominant scale type in the dataset.\n", dominant)
		return
	}
	fmt.Fprintf(b, "\n### Your Dominant Scale: %s\n%s\n", advice.Title, advice.Description)
	if advice.Note != "" {
		fmt.Fprintf(b, "*Note: %s*\n", advice.Note)
	}
	for _, cat := range advice.Categories {
		fmt.Fprintf(b, "\n**%s:**\n", capitalize(cat.Name))
		for _, d := range cat.Details {
			fmt.Fprintf(b, "  - **%s:** %s\n", capitalize(d.Name), strings.Join(d.Items, "; "))
		}
	}
}

func writeShapeSection(b *strings.Builder, bodyShape string) {
	fmt.Fprintf(b, "\n## Body Shape: %s\n", bodyShape)

	var (
		advice ShapeAdvice
		ok     bool
	)
	if key, mapped := ShapeKey(bodyShape); mapped {
		advice, ok = LookupShape(key)
	}
	if !ok {
		fmt.Fprintf(b, "No specific styling advice found for %q in the dataset.\n", bodyShape)
		return
	}

	if advice.Description != "" {
		b.WriteString(advice.Description + "\n")
	}
	if advice.Examples != "" {
		fmt.Fprintf(b, "*Examples: %s*\n", advice.Examples)
	}
	if advice.Notes != "" {
		fmt.Fprintf(b, "*Notes: %s*\n\n", advice.Notes)
	}
	if advice.BalanceStrategy != "" {
		fmt.Fprintf(b, "### Styling Strategy\n%s\n\n", advice.BalanceStrategy)
	}

	if f := advice.Fabrics; f != nil {
		b.WriteString("### Fabrics & Patterns\n")
		writeBullet(b, "Recommended Fabrics", f.Recommended)
		writeBullet(b, "Avoid if Larger", f.AvoidIfLarger)
		writeBullet(b, "Patterns", f.Patterns)
		writeBullet(b, "Colors", f.Colors)
		b.WriteString("\n")
	}

	if c := advice.Clothing; c != nil {
		b.WriteString("### Clothing Specifics\n")
		writeBullet(b, "General", c.General)
		writeBullet(b, "Tops", c.Tops)
		writeBullet(b, "Necklines", c.Necklines)
		writeBullet(b, "Bottoms", c.Bottoms)
		writeBullet(b, "Dresses", c.Dresses)
		writeBullet(b, "General Styling", c.Styling)
		writeBullet(b, "Bras", c.Bras)
		b.WriteString("\n")
	}

	if len(advice.Avoid) > 0 {
		b.WriteString("### Avoid:\n")
		for _, item := range advice.Avoid {
			fmt.Fprintf(b, "- %s\n", item)
		}
		b.WriteString("\n")
	}
	if advice.GobletSpecific != "" {
		fmt.Fprintf(b, "**Goblet Shape Specifics:** %s\n\n", advice.GobletSpecific)
	}
	if w := advice.WeightGain; w != nil {
		if w.Softened != "" {
			fmt.Fprintf(b, "**Weight Gain - Softened Straight:** %s\n\n", w.Softened)
		}
		if w.Barrel != "" && len(advice.BarrelSpecific) > 0 {
			fmt.Fprintf(b, "**Weight Gain - Barrel/Rectangle:** %s\n", w.Barrel)
			for _, item := range advice.BarrelSpecific {
				fmt.Fprintf(b, "  - %s\n", item)
			}
			b.WriteString("\n")
		}
	}
}

func writeBullet(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "- %s: %s\n", label, value)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
