package types

import (
	"strings"
	"testing"
)

func TestOntologyValidate(t *testing.T) {
	tests := []struct {
		name     string
		ontology Ontology
		wantErr  []string // field names expected in the validation error
	}{
		{
			name:     "valid",
			ontology: Ontology{Acronym: "BRO", Name: "Biomedical Resources"},
		},
		{
			name:     "missing everything",
			ontology: Ontology{},
			wantErr:  []string{"Acronym", "Name"},
		},
		{
			name:     "acronym with punctuation",
			ontology: Ontology{Acronym: "BRO-2", Name: "Biomedical Resources"},
			wantErr:  []string{"Acronym"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ontology.Validate()
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			verr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("Validate() = %v, expected *ValidationError", err)
			}
			for _, field := range tt.wantErr {
				if _, present := verr.Fields[field]; !present {
					t.Errorf("expected field %q in validation error, got %v", field, verr.Fields)
				}
			}
		})
	}
}

func TestSubmissionValidate(t *testing.T) {
	tests := []struct {
		name    string
		sub     OntologySubmission
		wantErr []string
	}{
		{
			name: "valid",
			sub: OntologySubmission{
				Acronym:             "BRO",
				SubmissionID:        1,
				SubmissionStatus:    "UPLOADED",
				HasOntologyLanguage: "OWL",
			},
		},
		{
			name: "missing id and status",
			sub: OntologySubmission{
				Acronym:             "BRO",
				HasOntologyLanguage: "OWL",
			},
			wantErr: []string{"SubmissionID", "SubmissionStatus"},
		},
		{
			name: "bad pull location",
			sub: OntologySubmission{
				Acronym:             "BRO",
				SubmissionID:        1,
				SubmissionStatus:    "UPLOADED",
				HasOntologyLanguage: "OWL",
				PullLocation:        "not a uri at all \x00",
			},
			wantErr: []string{"PullLocation"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sub.Validate()
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			verr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("Validate() = %v, expected *ValidationError", err)
			}
			for _, field := range tt.wantErr {
				if _, present := verr.Fields[field]; !present {
					t.Errorf("expected field %q in validation error, got %v", field, verr.Fields)
				}
			}
		})
	}
}

func TestValidationErrorMessageListsAllFields(t *testing.T) {
	sub := OntologySubmission{}
	err := sub.Validate()
	if err == nil {
		t.Fatal("expected validation error for empty submission")
	}
	msg := err.Error()
	for _, field := range []string{"Acronym", "SubmissionID", "SubmissionStatus", "HasOntologyLanguage"} {
		if !strings.Contains(msg, field) {
			t.Errorf("error message %q missing field %q", msg, field)
		}
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("HasOntologyLanguage", `unknown ontology format "XYZ"`)
	if got := err.Fields["HasOntologyLanguage"]; !strings.Contains(got, "XYZ") {
		t.Errorf("Fields[HasOntologyLanguage] = %q, expected the format name", got)
	}
	if !strings.Contains(err.Error(), "HasOntologyLanguage") {
		t.Errorf("Error() = %q, expected field name", err.Error())
	}
}
