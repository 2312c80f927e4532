package application

import (
	"reflect"
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
)

// Archived reports whether the status is a final decision.
func (s Status) Archived() bool {
	return s == StatusApproved || s == StatusDenied
}

// Answers holds the applicant supplied part of an application. The schema
// tags are the form field names used by the questionnaire configuration.
type Answers struct {
	Age            int    `json:"age" schema:"age"`
	Experience     string `json:"experience" schema:"experience"`
	Birthplace     string `json:"birthplace" schema:"birthplace"`
	Occupation     string `json:"occupation" schema:"occupation"`
	Education      string `json:"education,omitempty" schema:"education"`
	Qualities      string `json:"qualities" schema:"qualities"`
	CriminalRecord string `json:"criminalRecord" schema:"criminalRecord"`
	CharacterName  string `json:"characterName" schema:"characterName"`
	Description    string `json:"description" schema:"description"`
	Character      string `json:"character" schema:"character"`
	Motivation     string `json:"motivation" schema:"motivation"`
	Weaknesses     string `json:"weaknesses" schema:"weaknesses"`
	RulesAccepted  bool   `json:"rulesAccepted" schema:"rulesAccepted"`
}

// DiscordIdentity is a copy of the applicant's Discord profile taken when
// the application was submitted. It is never refreshed.
type DiscordIdentity struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Avatar    string    `json:"avatar"`
	Verified  bool      `json:"verified"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type Application struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Username  string    `json:"username"`
	Answers
	Discord      DiscordIdentity `json:"discord"`
	Status       Status          `json:"status"`
	StatusReason string          `json:"statusReason,omitempty"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

var fieldNames = func() map[string]struct{} {
	m := make(map[string]struct{})
	t := reflect.TypeOf(Answers{})
	for i := 0; i < t.NumField(); i++ {
		if name := t.Field(i).Tag.Get("schema"); name != "" {
			m[name] = struct{}{}
		}
	}
	return m
}()

// HasField reports whether name is an answer property a form field can bind to.
func HasField(name string) bool {
	_, ok := fieldNames[name]
	return ok
}

// FieldNames returns the answer property names in declaration order.
func FieldNames() []string {
	t := reflect.TypeOf(Answers{})
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if name := t.Field(i).Tag.Get("schema"); name != "" {
			names = append(names, name)
		}
	}
	return names
}
