package models

import "github.com/go-playground/validator/v10"

// Participant defines the structure for participant profiles
type Participant struct {
	ID              string `dynamodbav:"id" json:"id"` // ✅ Partition Key, identity-provider subject
	Name            string `dynamodbav:"name,omitempty" json:"name,omitempty" validate:"required"`
	Phone           string `dynamodbav:"phone,omitempty" json:"phone,omitempty" validate:"required,min=10"`
	Role            string `dynamodbav:"role,omitempty" json:"role,omitempty" validate:"required,oneof=bixo veterano"`
	Pronouns        string `dynamodbav:"pronouns,omitempty" json:"pronouns,omitempty" validate:"required"`
	Ethnicity       string `dynamodbav:"ethnicity,omitempty" json:"ethnicity,omitempty" validate:"required"`
	State           string `dynamodbav:"state,omitempty" json:"state,omitempty" validate:"required"`
	City            string `dynamodbav:"city,omitempty" json:"city,omitempty" validate:"required"`
	Parties         *int   `dynamodbav:"parties,omitempty" json:"parties,omitempty" validate:"required,min=0,max=10"` // 0-10 slider, pointer so 0 is kept
	Games           string `dynamodbav:"games,omitempty" json:"games,omitempty" validate:"required,oneof=Sim Não Neutro"`
	Sports          string `dynamodbav:"sports,omitempty" json:"sports,omitempty" validate:"required,oneof=Sim Não Neutro"`
	FieldOfInterest string `dynamodbav:"fieldOfInterest,omitempty" json:"fieldOfInterest,omitempty"` // optional
}

// ParticipantsTable is the DynamoDB table name for participant profiles
const ParticipantsTable = "Participants"

// Participant roles
const (
	RoleMentee = "bixo"
	RoleMentor = "veterano"
)

var validate = validator.New()

// Complete reports whether every required attribute is filled in.
// Participants with incomplete profiles are never matched.
func (p *Participant) Complete() bool {
	return validate.Struct(p) == nil
}
