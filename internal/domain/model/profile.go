// Package model contains domain models passed between layers.
package model

// Education is the closed set of education levels a profile can declare.
type Education string

// Education levels.
const (
	EducationHighSchool    Education = "High School"
	EducationUndergraduate Education = "Undergraduate"
	EducationGraduate      Education = "Graduate"
	EducationPhD           Education = "PhD"
	EducationBootcamp      Education = "Bootcamp"
	EducationSelfTaught    Education = "Self-taught"
	EducationOther         Education = "Other"
)

// Educations lists every valid education level in display order.
func Educations() []Education {
	return []Education{
		EducationHighSchool,
		EducationUndergraduate,
		EducationGraduate,
		EducationPhD,
		EducationBootcamp,
		EducationSelfTaught,
		EducationOther,
	}
}

// Valid reports whether e is one of the known levels.
func (e Education) Valid() bool {
	for _, v := range Educations() {
		if v == e {
			return true
		}
	}
	return false
}

// Profile is a participant's public profile. Skills keep the order the user
// entered them; matching treats them as a set.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Education Education `json:"education"`
	Skills    []string  `json:"skills"`
}
