package profile

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// LoadFile reads a profile from a JSON file, validating the fields the
// wizard depends on. Used to seed a session from a pre-filled profile.
func LoadFile(path string) (p Profile, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read profile file: %s", path)
		return p, err
	}

	p, err = ApplyDocument(New(), data)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse profile file: %s", path)
		return p, err
	}

	err = Validate(p)
	if err != nil {
		err = errors.Wrap(err, "profile validation failed")
		return p, err
	}

	return p, err
}

// SaveFile writes the profile to a JSON file.
func SaveFile(p Profile, path string) (err error) {
	var data []byte
	data, err = json.MarshalIndent(p, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal profile")
		return err
	}

	err = os.WriteFile(path, data, 0644)
	if err != nil {
		err = errors.Wrapf(err, "failed to write profile file: %s", path)
		return err
	}

	return err
}

// Validate checks enumerated fields against their option tables. Empty
// values pass; the step gate, not validation, decides completeness.
func Validate(p Profile) (err error) {
	if p.Academics.ClassRank != "" && !containsString(ClassRankOptions, p.Academics.ClassRank) {
		err = errors.Errorf("unknown class rank: %q", p.Academics.ClassRank)
		return err
	}

	for i, activity := range p.Activities.Activities {
		if activity.Category != "" && !containsString(ActivityCategories, activity.Category) {
			err = errors.Errorf("activity %d has unknown category: %q", i, activity.Category)
			return err
		}
		if activity.HoursPerWeek != "" && !containsString(HoursPerWeekOptions, activity.HoursPerWeek) {
			err = errors.Errorf("activity %d has unknown hours per week: %q", i, activity.HoursPerWeek)
			return err
		}
		for _, year := range activity.Years {
			if !containsString(GradeYears, year) {
				err = errors.Errorf("activity %d has unknown year: %q", i, year)
				return err
			}
		}
	}

	return err
}
