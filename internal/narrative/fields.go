// Package narrative models the three-step incident form: its fields, step
// gating, and the composer that autosaves and generates a narrative.
package narrative

import (
	"regexp"
	"strings"

	"nexus-assist/internal/generation"
	"nexus-assist/internal/model"
)

const (
	FieldIncidentDate        = "incidentDate"
	FieldTime                = "time"
	FieldLocation            = "location"
	FieldCallSign            = "callSign"
	FieldVictim              = "victim"
	FieldSuspect             = "suspect"
	FieldWitnesses           = "witnesses"
	FieldAntecedents         = "antecedents"
	FieldReasonForAttendance = "reasonForAttendance"
	FieldDetails             = "details"
	FieldExhibits            = "exhibits"
	FieldOutcome             = "outcome"
)

// Field describes one form field.
type Field struct {
	Name     string
	Label    string
	Step     int
	Required bool
	// Multiline fields are free text; the rest are single line.
	Multiline bool
}

// Catalogue lists every field in form order.
var Catalogue = []Field{
	{Name: FieldIncidentDate, Label: "Incident Date", Step: 1, Required: true},
	{Name: FieldTime, Label: "Incident Time", Step: 1, Required: true},
	{Name: FieldLocation, Label: "Location", Step: 1, Required: true},
	{Name: FieldCallSign, Label: "Call Sign", Step: 1, Required: true},
	{Name: FieldVictim, Label: "Victim", Step: 2, Required: true, Multiline: true},
	{Name: FieldSuspect, Label: "Suspect", Step: 2, Required: true, Multiline: true},
	{Name: FieldWitnesses, Label: "Witnesses", Step: 2, Required: true, Multiline: true},
	{Name: FieldAntecedents, Label: "Antecedents (FV Only)", Step: 3, Multiline: true},
	{Name: FieldReasonForAttendance, Label: "Reason for Attendance", Step: 3, Required: true, Multiline: true},
	{Name: FieldDetails, Label: "Details", Step: 3, Required: true, Multiline: true},
	{Name: FieldExhibits, Label: "Exhibits", Step: 3, Required: true, Multiline: true},
	{Name: FieldOutcome, Label: "Outcome", Step: 3, Required: true, Multiline: true},
}

const Steps = 3

// Meaningful is the subset of fields of which at least one must be filled
// before a draft is worth saving.
var Meaningful = []string{FieldLocation, FieldCallSign, FieldDetails, FieldVictim, FieldSuspect}

// StepFields returns the fields shown on step n.
func StepFields(n int) []Field {
	var out []Field
	for _, s := range Catalogue {
		if s.Step == n {
			out = append(out, s)
		}
	}
	return out
}

// StepRequired returns the required fields of step n.
func StepRequired(n int) []generation.Field {
	var out []generation.Field
	for _, s := range StepFields(n) {
		if s.Required {
			out = append(out, generation.Field{Name: s.Name, Label: s.Label})
		}
	}
	return out
}

// Required returns every required field across all steps.
func Required() []generation.Field {
	var out []generation.Field
	for n := 1; n <= Steps; n++ {
		out = append(out, StepRequired(n)...)
	}
	return out
}

// Label returns the display label of a form field, or the name itself.
func Label(name string) string {
	for _, s := range Catalogue {
		if s.Name == name {
			return s.Label
		}
	}
	return name
}

var exhibitSep = regexp.MustCompile(`[\n,]`)

// SplitExhibits turns the exhibits text into a list, one entry per line or
// comma, dropping blanks.
func SplitExhibits(s string) []string {
	out := []string{}
	for _, part := range exhibitSep.Split(s, -1) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ToRequest maps form values onto the backend field set.
func ToRequest(fields map[string]string, userID, draftID string) model.NarrativeFields {
	return model.NarrativeFields{
		UserID:              userID,
		DraftID:             draftID,
		CallSign:            fields[FieldCallSign],
		Date:                fields[FieldIncidentDate],
		Time:                fields[FieldTime],
		Location:            fields[FieldLocation],
		Victim:              fields[FieldVictim],
		Suspect:             fields[FieldSuspect],
		Witnesses:           fields[FieldWitnesses],
		ReasonForAttendance: fields[FieldReasonForAttendance],
		Details:             fields[FieldDetails],
		Antecedents:         fields[FieldAntecedents],
		Exhibits:            SplitExhibits(fields[FieldExhibits]),
		Outcome:             fields[FieldOutcome],
	}
}

// FromDraft maps a stored draft back onto form values.
func FromDraft(d model.Draft) map[string]string {
	return map[string]string{
		FieldIncidentDate:        d.Date,
		FieldTime:                d.Time,
		FieldLocation:            d.Location,
		FieldCallSign:            d.CallSign,
		FieldVictim:              d.Victim,
		FieldSuspect:             d.Suspect,
		FieldWitnesses:           d.Witnesses,
		FieldAntecedents:         d.Antecedents,
		FieldReasonForAttendance: d.ReasonForAttendance,
		FieldDetails:             d.Details,
		FieldExhibits:            strings.Join(d.Exhibits, "\n"),
		FieldOutcome:             d.Outcome,
	}
}
