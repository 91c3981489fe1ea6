package profile

import "strings"

// Action is one profile state transition. The reducer applies actions
// without side effects; Reduce(p, a) returns a new profile and never
// mutates its input.
type Action interface {
	isAction()
}

// UpdateBasicInfo sets identity fields. Nil pointers leave the existing
// value unchanged.
type UpdateBasicInfo struct {
	FullName *string
	Email    *string
}

// UpdateAcademics sets academic fields. Nil pointers and nil slices
// leave existing values unchanged.
type UpdateAcademics struct {
	ClassRank *string
	GPA       *string
	Subjects  []string
	Majors    []string
}

// UpdateCollegeGoals replaces the college-type set when non-nil.
type UpdateCollegeGoals struct {
	CollegeTypes []string
}

// AddSpecificCollege appends a college to the ordered list, de-duplicated.
type AddSpecificCollege struct {
	Name string
}

// AppendActivity adds an activity record.
type AppendActivity struct {
	Activity Activity
}

// UpdateActivity replaces the activity at Index. Out-of-range indexes
// are ignored.
type UpdateActivity struct {
	Index    int
	Activity Activity
}

// DeleteActivity removes the activity at Index. Out-of-range indexes
// are ignored.
type DeleteActivity struct {
	Index int
}

// UpdatePersonalInsights sets reflective answers. Nil pointers leave
// existing values unchanged. Values are truncated to MaxInsightLen.
type UpdatePersonalInsights struct {
	Happy     *string
	RoleModel *string
	Lesson    *string
	Hobby     *string
	Unique    *string
}

// SetWritingSample sets or clears (nil) the writing sample. Text is
// truncated to MaxWritingSampleLen.
type SetWritingSample struct {
	Sample *WritingSample
}

// SetSelectedTopic sets or clears (nil) the selected topic.
type SetSelectedTopic struct {
	Topic *SelectedTopic
}

// SetTopicSuggestions replaces the cached suggestions wholesale.
type SetTopicSuggestions struct {
	Suggestions map[string][]TopicIdea
}

// SetFollowUpQuestions replaces the question list. Responses keyed to
// IDs no longer present are dropped.
type SetFollowUpQuestions struct {
	Questions []FollowUpQuestion
}

// SetFollowUpResponse records the answer for one question ID.
type SetFollowUpResponse struct {
	ID     string
	Answer string
}

// SetGeneratedEssay replaces the stored essay wholesale.
type SetGeneratedEssay struct {
	Essay string
}

// AddSupplementalEssay appends a generated supplemental essay.
type AddSupplementalEssay struct {
	Essay SupplementalEssay
}

// ResetProfile restores the empty profile, clearing entered fields and
// all generated artifacts.
type ResetProfile struct{}

func (UpdateBasicInfo) isAction()        {}
func (UpdateAcademics) isAction()        {}
func (UpdateCollegeGoals) isAction()     {}
func (AddSpecificCollege) isAction()     {}
func (AppendActivity) isAction()         {}
func (UpdateActivity) isAction()         {}
func (DeleteActivity) isAction()         {}
func (UpdatePersonalInsights) isAction() {}
func (SetWritingSample) isAction()       {}
func (SetSelectedTopic) isAction()       {}
func (SetTopicSuggestions) isAction()    {}
func (SetFollowUpQuestions) isAction()   {}
func (SetFollowUpResponse) isAction()    {}
func (SetGeneratedEssay) isAction()      {}
func (AddSupplementalEssay) isAction()   {}
func (ResetProfile) isAction()           {}

// Reduce applies an action to a profile and returns the resulting
// profile. Unknown actions return the input unchanged.
//
//nolint:gocyclo // One case per action variant
func Reduce(p Profile, action Action) (next Profile) {
	next = p

	switch a := action.(type) {
	case UpdateBasicInfo:
		if a.FullName != nil {
			next.BasicInfo.FullName = *a.FullName
		}
		if a.Email != nil {
			next.BasicInfo.Email = *a.Email
		}
	case UpdateAcademics:
		if a.ClassRank != nil {
			next.Academics.ClassRank = *a.ClassRank
		}
		if a.GPA != nil {
			next.Academics.GPA = *a.GPA
		}
		if a.Subjects != nil {
			next.Academics.Subjects = copyStrings(a.Subjects)
		}
		if a.Majors != nil {
			next.Academics.Majors = copyStrings(a.Majors)
		}
	case UpdateCollegeGoals:
		if a.CollegeTypes != nil {
			next.CollegeGoals.CollegeTypes = copyStrings(a.CollegeTypes)
		}
	case AddSpecificCollege:
		name := strings.TrimSpace(a.Name)
		if name == "" || containsString(next.CollegeGoals.SpecificColleges, name) {
			return next
		}
		next.CollegeGoals.SpecificColleges = append(copyStrings(next.CollegeGoals.SpecificColleges), name)
	case AppendActivity:
		next.Activities.Activities = append(copyActivities(next.Activities.Activities), a.Activity)
	case UpdateActivity:
		if a.Index < 0 || a.Index >= len(next.Activities.Activities) {
			return next
		}
		activities := copyActivities(next.Activities.Activities)
		activities[a.Index] = a.Activity
		next.Activities.Activities = activities
	case DeleteActivity:
		if a.Index < 0 || a.Index >= len(next.Activities.Activities) {
			return next
		}
		activities := copyActivities(next.Activities.Activities)
		next.Activities.Activities = append(activities[:a.Index], activities[a.Index+1:]...)
	case UpdatePersonalInsights:
		applyInsight(&next.PersonalInsights.Happy, a.Happy)
		applyInsight(&next.PersonalInsights.RoleModel, a.RoleModel)
		applyInsight(&next.PersonalInsights.Lesson, a.Lesson)
		applyInsight(&next.PersonalInsights.Hobby, a.Hobby)
		applyInsight(&next.PersonalInsights.Unique, a.Unique)
	case SetWritingSample:
		if a.Sample == nil {
			next.PersonalInsights.WritingSample = nil
			return next
		}
		sample := *a.Sample
		sample.Text = truncate(sample.Text, MaxWritingSampleLen)
		next.PersonalInsights.WritingSample = &sample
	case SetSelectedTopic:
		if a.Topic == nil {
			next.SelectedTopic = nil
			return next
		}
		topic := *a.Topic
		next.SelectedTopic = &topic
	case SetTopicSuggestions:
		next.TopicSuggestions = copySuggestions(a.Suggestions)
	case SetFollowUpQuestions:
		questions := make([]FollowUpQuestion, len(a.Questions))
		copy(questions, a.Questions)
		next.FollowUpQuestions = questions

		// Drop responses orphaned by the new question list.
		kept := map[string]string{}
		for _, q := range questions {
			if answer, ok := next.FollowUpResponses[q.ID]; ok {
				kept[q.ID] = answer
			}
		}
		next.FollowUpResponses = kept
	case SetFollowUpResponse:
		responses := make(map[string]string, len(next.FollowUpResponses)+1)
		for k, v := range next.FollowUpResponses {
			responses[k] = v
		}
		responses[a.ID] = a.Answer
		next.FollowUpResponses = responses
	case SetGeneratedEssay:
		next.GeneratedEssay = a.Essay
	case AddSupplementalEssay:
		essays := make([]SupplementalEssay, len(next.SupplementalEssays), len(next.SupplementalEssays)+1)
		copy(essays, next.SupplementalEssays)
		next.SupplementalEssays = append(essays, a.Essay)
	case ResetProfile:
		next = New()
	}

	return next
}

// AnsweredFollowUpCount returns the number of follow-up questions whose
// recorded answer is non-empty after trimming.
func AnsweredFollowUpCount(p Profile) (count int) {
	for _, q := range p.FollowUpQuestions {
		if strings.TrimSpace(p.FollowUpResponses[q.ID]) != "" {
			count++
		}
	}
	return count
}

func applyInsight(field *string, value *string) {
	if value == nil {
		return
	}
	*field = truncate(*value, MaxInsightLen)
}

func truncate(s string, limit int) (out string) {
	out = s
	if len(out) <= limit {
		return out
	}
	runes := []rune(out)
	if len(runes) > limit {
		out = string(runes[:limit])
	}
	return out
}

func copyStrings(in []string) (out []string) {
	out = make([]string, len(in))
	copy(out, in)
	return out
}

func containsString(haystack []string, needle string) (found bool) {
	for _, s := range haystack {
		if s == needle {
			found = true
			return found
		}
	}
	return found
}

func copyActivities(in []Activity) (out []Activity) {
	out = make([]Activity, len(in))
	copy(out, in)
	return out
}

func copySuggestions(in map[string][]TopicIdea) (out map[string][]TopicIdea) {
	if in == nil {
		return out
	}
	out = make(map[string][]TopicIdea, len(in))
	for k, ideas := range in {
		copied := make([]TopicIdea, len(ideas))
		copy(copied, ideas)
		out[k] = copied
	}
	return out
}
