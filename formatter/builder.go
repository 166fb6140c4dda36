package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/fatih/color"

	"github.com/gnolang/boolattack/collide"
	"github.com/gnolang/boolattack/internal/attack"
	"github.com/gnolang/boolattack/internal/logic"
	"github.com/gnolang/boolattack/internal/verify"
)

const unnamedSource = "<program>"

// verdicts
const (
	VerdictCollision    = "collision"
	VerdictDegenerate   = "degenerate"
	VerdictResistant    = "resistant"
	VerdictInconclusive = "inconclusive"
	VerdictEmpty        = "empty"
)

var (
	collisionStyle    = color.New(color.FgRed, color.Bold)
	inconclusiveStyle = color.New(color.FgHiYellow, color.Bold)
	resistantStyle    = color.New(color.FgGreen, color.Bold)
	kindStyle         = color.New(color.FgYellow, color.Bold)
	fileStyle         = color.New(color.FgCyan, color.Bold)
	lineStyle         = color.New(color.FgHiBlue, color.Bold)
	sectionStyle      = color.New(color.FgGreen, color.Bold)
	noStyle           = color.New(color.FgWhite)
)

// Verdict names the outcome of a result in one word.
func Verdict(kind attack.ResultKind) string {
	switch kind {
	case attack.CollisionFound:
		return VerdictCollision
	case attack.AllInputParametersEliminated, attack.SomeInputParametersEliminated:
		return VerdictDegenerate
	case attack.NoCollisionFound:
		return VerdictResistant
	case attack.NoCollisionFoundYet:
		return VerdictInconclusive
	default:
		return VerdictEmpty
	}
}

/***** Report Builder *****/

type ReportData struct {
	Verdict       string
	Kind          string
	Source        string
	FreeSummary   string
	ShowGain      bool
	Gain          int
	SearchSummary string
	Constraints   []string
	Witness       *WitnessData
}

type WitnessData struct {
	Differing string
	Left      string
	Right     string
	Outputs   string
}

const reportTemplate = `{{header .Verdict .Kind .Source}}
{{- gutter}}
{{- field "free inputs" .FreeSummary}}
{{- if .ShowGain}}{{field "gain" .Gain}}{{end}}
{{- field "search" .SearchSummary}}
{{- if .Constraints}}
{{- section "Constraints"}}
{{- range .Constraints}}{{row .}}{{end}}
{{- end}}
{{- with .Witness}}
{{- section "Witness"}}
{{- row (printf "differing: %s" .Differing)}}
{{- row (printf "left:      %s" .Left)}}
{{- row (printf "right:     %s" .Right)}}
{{- row (printf "outputs:   %s" .Outputs)}}
{{- end}}`

var reportTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"header":  header,
	"gutter":  gutter,
	"field":   field,
	"section": section,
	"row":     row,
}).Parse(reportTemplate))

// FormatReports renders reports separated by blank lines.
func FormatReports(reports []*collide.Report) string {
	parts := make([]string, 0, len(reports))
	for _, r := range reports {
		parts = append(parts, FormatReport(r))
	}
	return strings.Join(parts, "\n")
}

// FormatReport renders one report in a human-readable form.
func FormatReport(report *collide.Report) string {
	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, buildReportData(report)); err != nil {
		return fmt.Sprintf("Error formatting report: %v", err)
	}
	return buf.String()
}

func buildReportData(report *collide.Report) ReportData {
	res := report.Result
	source := report.Source
	if source == "" {
		source = unnamedSource
	}

	free := fmt.Sprintf("%d -> %d", len(res.OriginalFreeInputs), len(res.FreeInputs))
	if n := res.Constraints.Len(); n > 0 {
		free += fmt.Sprintf(" with %d %s", n, plural(n, "constraint"))
	}

	search := "not searched"
	if !res.Kind.Degenerate() && res.Kind != attack.NoInputParameters {
		search = fmt.Sprintf("%d %s, %d %s",
			res.Iterations, plural(res.Iterations, "iteration"),
			res.Branches, plural(res.Branches, "branch"))
	}

	data := ReportData{
		Verdict:       Verdict(res.Kind),
		Kind:          res.Kind.String(),
		Source:        source,
		FreeSummary:   free,
		ShowGain:      res.Kind == attack.CollisionFound || res.Kind.Degenerate(),
		Gain:          res.Gain(),
		SearchSummary: search,
	}
	for _, c := range res.Constraints.Slice() {
		data.Constraints = append(data.Constraints, c.String())
	}
	if report.Witness != nil {
		data.Witness = buildWitnessData(report.Witness)
	}
	return data
}

func buildWitnessData(w *verify.Witness) *WitnessData {
	differing := w.Differing()
	names := make([]string, len(differing))
	for i, n := range differing {
		names[i] = n.String()
	}
	return &WitnessData{
		Differing: strings.Join(names, " "),
		Left:      bitString(w.Left),
		Right:     bitString(w.Right),
		Outputs:   bitString(w.Values),
	}
}

func bitString(bits []bool) string {
	var sb strings.Builder
	sb.Grow(len(bits))
	for _, b := range bits {
		if b {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	if strings.HasSuffix(word, "ch") {
		return word + "es"
	}
	return word + "s"
}

// utils functions used in the text templates

func header(verdict string, kind string, source string) string {
	var endString string
	switch verdict {
	case VerdictCollision, VerdictDegenerate:
		endString = collisionStyle.Sprintf("%s: ", verdict)
	case VerdictInconclusive:
		endString = inconclusiveStyle.Sprintf("%s: ", verdict)
	case VerdictResistant:
		endString = resistantStyle.Sprintf("%s: ", verdict)
	default:
		endString = noStyle.Sprintf("%s: ", verdict)
	}
	endString += kindStyle.Sprintf("%s\n", kind)
	endString += lineStyle.Sprint(" --> ")
	endString += fileStyle.Sprintf("%s\n", source)
	return endString
}

func gutter() string {
	return lineStyle.Sprint("  |\n")
}

func field(name string, value any) string {
	return lineStyle.Sprint("  = ") + noStyle.Sprintf("%s: %v\n", name, value)
}

func section(title string) string {
	return sectionStyle.Sprintf("%s:\n", title)
}

func row(text string) string {
	return lineStyle.Sprint("  | ") + noStyle.Sprintf("%s\n", text)
}

// FormatComplexity renders the most entangled inputs and input pairs of
// a program. limit bounds both lists; zero or less shows everything.
func FormatComplexity(report *logic.ComplexityReport, limit int) string {
	var sb strings.Builder
	sb.WriteString(field("expressions", report.ExpressionCount))

	inputs := report.Inputs
	if limit > 0 && len(inputs) > limit {
		inputs = inputs[:limit]
	}
	if len(inputs) > 0 {
		width := 0
		for _, in := range inputs {
			width = max(width, len(in.Name))
		}
		sb.WriteString(section("Inputs"))
		for _, in := range inputs {
			sb.WriteString(row(fmt.Sprintf("%-*s %d", width, in.Name, in.Count)))
		}
	}

	pairs := report.Pairs
	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}
	if len(pairs) > 0 {
		labels := make([]string, len(pairs))
		width := 0
		for i, p := range pairs {
			labels[i] = p.A.String() + " " + p.B.String()
			width = max(width, len(labels[i]))
		}
		sb.WriteString(section("Pairs"))
		for i, p := range pairs {
			sb.WriteString(row(fmt.Sprintf("%-*s %d", width, labels[i], p.Count)))
		}
	}
	return sb.String()
}
