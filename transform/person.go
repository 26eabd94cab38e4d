package transform

import "fmt"

// AgeGroup is the classification derived from a person's age. The bands are
// ordered: Child < Teen < Adult < Senior.
type AgeGroup int

const (
	Child AgeGroup = iota
	Teen
	Adult
	Senior
)

var ageGroupNames = [...]string{"Child", "Teen", "Adult", "Senior"}

func (g AgeGroup) String() string {
	if g < Child || g > Senior {
		return fmt.Sprintf("AgeGroup(%d)", int(g))
	}
	return ageGroupNames[g]
}

func (g AgeGroup) MarshalText() ([]byte, error) {
	if g < Child || g > Senior {
		return nil, fmt.Errorf("invalid age group %d", int(g))
	}
	return []byte(ageGroupNames[g]), nil
}

func (g *AgeGroup) UnmarshalText(b []byte) error {
	for i, name := range ageGroupNames {
		if name == string(b) {
			*g = AgeGroup(i)
			return nil
		}
	}
	return fmt.Errorf("unknown age group %q", b)
}

// FromAge classifies an age. The four bands cover exactly 0..100; any other
// age fails with *InvalidAgeError.
func FromAge(age uint8) (AgeGroup, error) {
	switch {
	case age <= 12:
		return Child, nil
	case age <= 19:
		return Teen, nil
	case age <= 59:
		return Adult, nil
	case age <= 100:
		return Senior, nil
	default:
		return 0, &InvalidAgeError{Age: age}
	}
}

// Record is a person as decoded from the input, before classification.
type Record struct {
	Name string `json:"name" yaml:"name"`
	Age  uint8  `json:"age" yaml:"age"`
}

// Person is a classified record. AgeGroup always equals FromAge(Age) for
// values built by AddClassification.
type Person struct {
	Name     string   `json:"name" yaml:"name"`
	Age      uint8    `json:"age" yaml:"age"`
	AgeGroup AgeGroup `json:"age_group" yaml:"age_group"`
}

// AddClassification derives the age group of r. It is the only step from
// Record to Person and may be called directly on already-decoded records.
func AddClassification(r Record) (Person, error) {
	g, err := FromAge(r.Age)
	if err != nil {
		return Person{}, &AddClassificationError{Record: r, Err: err}
	}
	return Person{Name: r.Name, Age: r.Age, AgeGroup: g}, nil
}
