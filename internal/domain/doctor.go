package domain

import (
	"time"
)

// DoctorsCollection is the Record Store collection doctor profiles are written to.
const DoctorsCollection = "doctors"

type Field string

const (
	FieldName        Field = "name"
	FieldSpecialty   Field = "specialty"
	FieldExperience  Field = "experience"
	FieldLanguages   Field = "languages"
	FieldLicense     Field = "license"
	FieldLivingPlace Field = "livingPlace"
)

// Fields lists the text fields in the order the form renders them.
var Fields = []Field{
	FieldName,
	FieldSpecialty,
	FieldExperience,
	FieldLanguages,
	FieldLicense,
	FieldLivingPlace,
}

func (f Field) IsValid() bool {
	switch f {
	case FieldName, FieldSpecialty, FieldExperience, FieldLanguages, FieldLicense, FieldLivingPlace:
		return true
	}
	return false
}

func (f Field) Label() string {
	switch f {
	case FieldName:
		return "Name"
	case FieldSpecialty:
		return "Specialty"
	case FieldExperience:
		return "Experience"
	case FieldLanguages:
		return "Languages"
	case FieldLicense:
		return "License"
	case FieldLivingPlace:
		return "Living Place"
	}
	return string(f)
}

func ParseField(s string) (Field, error) {
	f := Field(s)
	if !f.IsValid() {
		return "", ErrUnknownField
	}
	return f, nil
}

// DoctorFields holds the six free-text profile fields. Values are kept verbatim.
type DoctorFields struct {
	Name        string `json:"name" form:"name" binding:"required"`
	Specialty   string `json:"specialty" form:"specialty" binding:"required"`
	Experience  string `json:"experience" form:"experience" binding:"required"`
	Languages   string `json:"languages" form:"languages" binding:"required"`
	License     string `json:"license" form:"license" binding:"required"`
	LivingPlace string `json:"livingPlace" form:"livingPlace" binding:"required"`
}

func (d *DoctorFields) Set(f Field, value string) error {
	switch f {
	case FieldName:
		d.Name = value
	case FieldSpecialty:
		d.Specialty = value
	case FieldExperience:
		d.Experience = value
	case FieldLanguages:
		d.Languages = value
	case FieldLicense:
		d.License = value
	case FieldLivingPlace:
		d.LivingPlace = value
	default:
		return ErrUnknownField
	}
	return nil
}

func (d DoctorFields) Get(f Field) string {
	switch f {
	case FieldName:
		return d.Name
	case FieldSpecialty:
		return d.Specialty
	case FieldExperience:
		return d.Experience
	case FieldLanguages:
		return d.Languages
	case FieldLicense:
		return d.License
	case FieldLivingPlace:
		return d.LivingPlace
	}
	return ""
}

// Picture is a selected profile picture that has not been uploaded yet.
type Picture struct {
	Name        string
	ContentType string
	Data        []byte
}

func (p *Picture) Size() int64 {
	return int64(len(p.Data))
}

type DoctorProfileDraft struct {
	DoctorFields
	ProfilePicture *Picture
}

// Record builds the document persisted for the draft, with the picture replaced by its URL.
func (d DoctorProfileDraft) Record(imageURL string) DoctorRecord {
	return DoctorRecord{
		Name:           d.Name,
		Specialty:      d.Specialty,
		Experience:     d.Experience,
		Languages:      d.Languages,
		License:        d.License,
		LivingPlace:    d.LivingPlace,
		ProfilePicture: imageURL,
	}
}

type DoctorRecord struct {
	Name           string `json:"name" bson:"name"`
	Specialty      string `json:"specialty" bson:"specialty"`
	Experience     string `json:"experience" bson:"experience"`
	Languages      string `json:"languages" bson:"languages"`
	License        string `json:"license" bson:"license"`
	LivingPlace    string `json:"livingPlace" bson:"livingPlace"`
	ProfilePicture string `json:"profilePicture" bson:"profilePicture"`
}

// Submission is the outcome of a successful submit.
type Submission struct {
	ID          string       `json:"id"`
	ImageURL    string       `json:"image_url"`
	Record      DoctorRecord `json:"record"`
	SubmittedAt time.Time    `json:"submitted_at"`
}

type UpdateFieldDTO struct {
	Value string `json:"value"`
}

type SessionDTO struct {
	ID string `json:"id"`
}
