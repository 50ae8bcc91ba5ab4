package llm

import (
	"fmt"
	"strings"

	"nexus-assist/internal/config"
	"nexus-assist/internal/model"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

const defaultNarrativePrompt = `You are a report writing assistant for police officers.
Write a formal, first person incident narrative from the officer's notes.
Use only the facts in the notes. Write in past tense, in chronological order,
in plain paragraphs without headings. Do not invent names, times or evidence.`

const defaultSMFPrompt = `You are a report writing assistant for police officers.
Turn the narrative into a Statement of Material Facts: a numbered list of
short factual statements in chronological order, suitable for a court brief.
Keep every statement attributable to the narrative. Do not add opinions.`

const defaultNexusPrompt = `You are Nexus, a legal reference assistant for police officers.
Answer the officer's question concisely and practically. Cite the relevant
legislation or power where you can, and say plainly when the answer depends
on facts or jurisdiction the officer should confirm.`

// Prompts holds the system prompts used by the model-backed writer.
type Prompts struct {
	Narrative string
	SMF       string
	Nexus     string
}

// PromptsFromConfig fills any prompt left empty in cfg with its default.
func PromptsFromConfig(cfg config.PromptsConfig) Prompts {
	p := Prompts{
		Narrative: defaultNarrativePrompt,
		SMF:       defaultSMFPrompt,
		Nexus:     defaultNexusPrompt,
	}
	if cfg.Narrative != "" {
		p.Narrative = cfg.Narrative
	}
	if cfg.SMF != "" {
		p.SMF = cfg.SMF
	}
	if cfg.Nexus != "" {
		p.Nexus = cfg.Nexus
	}
	return p
}

func newNarrativePrompt(system string) prompt.ChatTemplate {
	return prompt.FromMessages(schema.FString,
		schema.SystemMessage(system),
		schema.UserMessage("Officer's notes:\n{notes}\n\nWrite version {version} of {total}."),
	)
}

func newSMFPrompt(system string) prompt.ChatTemplate {
	return prompt.FromMessages(schema.FString,
		schema.SystemMessage(system),
		schema.UserMessage("Officer: {officer}\nReference: {reference}\n\nNarrative:\n{narrative}"),
	)
}

func newNexusPrompt(system string) prompt.ChatTemplate {
	return prompt.FromMessages(schema.FString,
		schema.SystemMessage(system),
		schema.UserMessage("{question}"),
	)
}

// noteLabels orders the incident notes the way officers fill them in.
var noteLabels = []struct {
	label string
	value func(model.NarrativeFields) string
}{
	{"Call sign", func(f model.NarrativeFields) string { return f.CallSign }},
	{"Date", func(f model.NarrativeFields) string { return f.Date }},
	{"Time", func(f model.NarrativeFields) string { return f.Time }},
	{"Location", func(f model.NarrativeFields) string { return f.Location }},
	{"Reason for attendance", func(f model.NarrativeFields) string { return f.ReasonForAttendance }},
	{"Victim", func(f model.NarrativeFields) string { return f.Victim }},
	{"Suspect", func(f model.NarrativeFields) string { return f.Suspect }},
	{"Witnesses", func(f model.NarrativeFields) string { return f.Witnesses }},
	{"Details", func(f model.NarrativeFields) string { return f.Details }},
	{"Antecedents", func(f model.NarrativeFields) string { return f.Antecedents }},
	{"Exhibits", func(f model.NarrativeFields) string { return strings.Join(f.Exhibits, ", ") }},
	{"Outcome", func(f model.NarrativeFields) string { return f.Outcome }},
}

// FormatNotes renders the non-empty incident fields as "Label: value" lines.
func FormatNotes(f model.NarrativeFields) string {
	var b strings.Builder
	for _, n := range noteLabels {
		v := strings.TrimSpace(n.value(f))
		if v == "" {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", n.label, v)
	}
	return strings.TrimRight(b.String(), "\n")
}
