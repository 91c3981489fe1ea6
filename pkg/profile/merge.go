package profile

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// ApplyDocument hydrates a profile from a persisted JSON document.
// Sections present in the document replace the matching section of the
// base profile wholesale; missing top-level sections keep the base
// values. There is no deep merge below the section level.
func ApplyDocument(base Profile, doc []byte) (hydrated Profile, err error) {
	hydrated = base

	var sections map[string]json.RawMessage
	err = json.Unmarshal(doc, &sections)
	if err != nil {
		err = errors.Wrap(err, "failed to parse profile document")
		return hydrated, err
	}

	apply := func(key string, target interface{}) (applyErr error) {
		raw, ok := sections[key]
		if !ok || string(raw) == "null" {
			return applyErr
		}
		applyErr = json.Unmarshal(raw, target)
		if applyErr != nil {
			applyErr = errors.Wrapf(applyErr, "failed to parse profile section %q", key)
		}
		return applyErr
	}

	fields := []struct {
		key    string
		target interface{}
	}{
		{"basicInfo", &hydrated.BasicInfo},
		{"academics", &hydrated.Academics},
		{"collegeGoals", &hydrated.CollegeGoals},
		{"activitiesAndInvolvement", &hydrated.Activities},
		{"personalInsights", &hydrated.PersonalInsights},
		{"selectedTopic", &hydrated.SelectedTopic},
		{"topicSuggestions", &hydrated.TopicSuggestions},
		{"followUpQuestions", &hydrated.FollowUpQuestions},
		{"followUpResponses", &hydrated.FollowUpResponses},
		{"generatedEssay", &hydrated.GeneratedEssay},
		{"supplementalEssays", &hydrated.SupplementalEssays},
	}

	for _, field := range fields {
		err = apply(field.key, field.target)
		if err != nil {
			return hydrated, err
		}
	}

	if hydrated.FollowUpResponses == nil {
		hydrated.FollowUpResponses = map[string]string{}
	}

	return hydrated, err
}
