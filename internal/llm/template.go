package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"nexus-assist/internal/model"
)

// TemplateWriter builds documents from the notes without a model. Output is
// deterministic, which the stub backend and its tests rely on.
type TemplateWriter struct{}

func NewTemplateWriter() *TemplateWriter {
	return &TemplateWriter{}
}

func (w *TemplateWriter) Narratives(ctx context.Context, f model.NarrativeFields, count int) ([]string, error) {
	if count < 1 {
		count = 1
	}
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, narrativeVersion(f, i))
	}
	return out, nil
}

func narrativeVersion(f model.NarrativeFields, variant int) string {
	var paras []string

	opening := fmt.Sprintf("On %s at approximately %s, I attended %s", or(f.Date, "the date in question"), or(f.Time, "an unrecorded time"), or(f.Location, "the location"))
	if f.CallSign != "" {
		opening += fmt.Sprintf(" as call sign %s", f.CallSign)
	}
	if f.ReasonForAttendance != "" {
		opening += fmt.Sprintf(" in response to %s", lowerFirst(f.ReasonForAttendance))
	}
	paras = append(paras, opening+".")

	var people []string
	if f.Victim != "" {
		people = append(people, fmt.Sprintf("The victim was identified as %s.", f.Victim))
	}
	if f.Suspect != "" {
		people = append(people, fmt.Sprintf("The suspect was identified as %s.", f.Suspect))
	}
	if f.Witnesses != "" {
		people = append(people, fmt.Sprintf("Witnesses present: %s.", strings.TrimSuffix(f.Witnesses, ".")))
	}
	if len(people) > 0 {
		paras = append(paras, strings.Join(people, " "))
	}

	if f.Details != "" {
		lead := "Upon arrival, "
		if variant%2 == 1 {
			lead = "On attending the scene, "
		}
		paras = append(paras, lead+lowerFirst(ensureStop(f.Details)))
	}
	if f.Antecedents != "" {
		paras = append(paras, "Relevant antecedents: "+ensureStop(f.Antecedents))
	}
	if len(f.Exhibits) > 0 {
		paras = append(paras, fmt.Sprintf("The following exhibits were seized: %s.", strings.Join(f.Exhibits, ", ")))
	}
	if f.Outcome != "" {
		paras = append(paras, "Outcome: "+ensureStop(f.Outcome))
	}

	if variant > 0 {
		paras = append(paras, fmt.Sprintf("(Version %d)", variant+1))
	}
	return strings.Join(paras, "\n\n")
}

var sentenceEnd = regexp.MustCompile(`[.!?]+\s+`)

// SMF numbers each sentence of the narrative.
func (w *TemplateWriter) SMF(ctx context.Context, req model.GenerateSMFRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("STATEMENT OF MATERIAL FACTS\n")
	if req.OfficerName != "" {
		fmt.Fprintf(&b, "Officer: %s\n", req.OfficerName)
	}
	if req.ReferenceID != "" {
		fmt.Fprintf(&b, "Reference: %s\n", req.ReferenceID)
	}
	b.WriteString("\n")

	text := strings.Join(strings.Fields(req.Narrative), " ")
	n := 0
	for _, s := range splitSentences(text) {
		n++
		fmt.Fprintf(&b, "%d. %s\n", n, s)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func splitSentences(text string) []string {
	var out []string
	last := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		out = append(out, strings.TrimSpace(text[last:loc[1]]))
		last = loc[1]
	}
	if rest := strings.TrimSpace(text[last:]); rest != "" {
		out = append(out, ensureStop(rest))
	}
	return out
}

var topics = []struct {
	keywords []string
	answer   string
}{
	{[]string{"warrant", "search"}, "A search generally needs a warrant unless a statutory power applies, such as consent, a search incidental to lawful arrest, or urgent circumstances where evidence may be lost. Record the power you relied on and your grounds."},
	{[]string{"trespass"}, "Trespass offences usually require that the person entered or remained on land without lawful excuse after being asked to leave. Penalties vary by jurisdiction; confirm the applicable section before charging."},
	{[]string{"caution"}, "A caution may be issued where the offence is minor, the person admits it, and a caution is in the public interest. Check the local cautioning guidelines and record the admission."},
	{[]string{"rights", "arrest"}, "On arrest, tell the person they are under arrest, the reason, and that they have the right to remain silent and to contact a lawyer. Repeat the caution if they do not understand."},
	{[]string{"section", "criminal code"}, "Read the section together with its definitions and any defences. Note the elements you must prove and the evidence supporting each one."},
}

// Answer matches the question against a small set of common topics.
func (w *TemplateWriter) Answer(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	q := strings.ToLower(question)
	for _, t := range topics {
		for _, k := range t.keywords {
			if strings.Contains(q, k) {
				return t.answer, nil
			}
		}
	}
	return fmt.Sprintf("Nexus is running offline and has no reference entry for %q. Check the relevant legislation or ask your supervisor.", strings.TrimSpace(question)), nil
}

func or(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func ensureStop(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s[len(s)-1:], ".!?") {
		return s
	}
	return s + "."
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if len(r) > 1 && r[1] >= 'A' && r[1] <= 'Z' {
		return s
	}
	r[0] = []rune(strings.ToLower(string(r[0])))[0]
	return string(r)
}
