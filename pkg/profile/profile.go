package profile

// Field caps applied by the reducer. Oversized input is truncated, not rejected,
// so a keystroke never fails.
const (
	// MaxInsightLen caps each personal-insight answer.
	MaxInsightLen = 500
	// MaxWritingSampleLen caps the optional writing sample text.
	MaxWritingSampleLen = 2000
)

// ClassRankOptions are the accepted class rank values.
//
//nolint:gochecknoglobals // Static option table
var ClassRankOptions = []string{
	"Top 1%",
	"Top 5%",
	"Top 10%",
	"Top 25%",
	"Top 50%",
	"Top 75%",
	"Bottom of the class",
	"Unranked",
}

// ActivityCategories are the accepted activity category values. "other"
// carries a free-text override in Activity.OtherCategory.
//
//nolint:gochecknoglobals // Static option table
var ActivityCategories = []string{
	"sports",
	"performing_arts",
	"academic_clubs",
	"community_service",
	"student_government",
	"work_experience",
	"religious",
	"other",
}

// HoursPerWeekOptions are the accepted weekly-hours values.
//
//nolint:gochecknoglobals // Static option table
var HoursPerWeekOptions = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "10+"}

// GradeYears are the accepted activity year values.
//
//nolint:gochecknoglobals // Static option table
var GradeYears = []string{"9th", "10th", "11th", "12th"}

// CommonAppPrompts maps prompt numbers "1".."6" to the full Common App
// essay prompt text. Topic suggestions are keyed by these numbers.
//
//nolint:gochecknoglobals // Static prompt table
var CommonAppPrompts = map[string]string{
	"1": "Some students have a background, identity, interest, or talent that is so meaningful they believe their application would be incomplete without it. If this sounds like you, then please share your story.",
	"2": "The lessons we take from obstacles we encounter can be fundamental to later success. Recount a time when you faced a challenge, setback, or failure. How did it affect you, and what did you learn from the experience?",
	"3": "Reflect on a time when you questioned or challenged a belief or idea. What prompted your thinking? What was the outcome?",
	"4": "Reflect on something that someone has done for you that has made you happy or thankful in a surprising way. How has this gratitude affected or motivated you?",
	"5": "Discuss an accomplishment, event, or realization that sparked a period of personal growth and a new understanding of yourself or others.",
	"6": "Describe a topic, idea, or concept you find so engaging that it makes you lose all track of time. Why does it captivate you? What or who do you turn to when you want to learn more?",
}

// PromptNumbers are the topic-suggestion keys in display order.
//
//nolint:gochecknoglobals // Static prompt table
var PromptNumbers = []string{"1", "2", "3", "4", "5", "6"}

// Profile is the aggregate of all user-entered and AI-generated data for
// one session. Its JSON shape is the persisted document shape verbatim.
type Profile struct {
	BasicInfo          BasicInfo              `json:"basicInfo"`
	Academics          Academics              `json:"academics"`
	CollegeGoals       CollegeGoals           `json:"collegeGoals"`
	Activities         ActivitiesSection      `json:"activitiesAndInvolvement"`
	PersonalInsights   PersonalInsights       `json:"personalInsights"`
	SelectedTopic      *SelectedTopic         `json:"selectedTopic"`
	TopicSuggestions   map[string][]TopicIdea `json:"topicSuggestions,omitempty"`
	FollowUpQuestions  []FollowUpQuestion     `json:"followUpQuestions,omitempty"`
	FollowUpResponses  map[string]string      `json:"followUpResponses,omitempty"`
	GeneratedEssay     string                 `json:"generatedEssay,omitempty"`
	SupplementalEssays []SupplementalEssay    `json:"supplementalEssays,omitempty"`
}

// BasicInfo holds the student's identity fields.
type BasicInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// Academics holds the student's academic standing and interests.
type Academics struct {
	ClassRank string   `json:"classRank"`
	GPA       string   `json:"gpa"`
	Subjects  []string `json:"subjects"`
	Majors    []string `json:"majors"`
}

// CollegeGoals holds college preferences.
type CollegeGoals struct {
	CollegeTypes     []string `json:"collegeTypes"`
	SpecificColleges []string `json:"specificColleges"`
}

// ActivitiesSection wraps the ordered activity list.
type ActivitiesSection struct {
	Activities []Activity `json:"activities"`
}

// Activity is one extracurricular record.
type Activity struct {
	Category      string   `json:"category"`
	OtherCategory string   `json:"otherCategory,omitempty"`
	Years         []string `json:"years"`
	Leadership    string   `json:"leadership,omitempty"`
	Description   string   `json:"description,omitempty"`
	HoursPerWeek  string   `json:"hoursPerWeek"`
}

// PersonalInsights holds the five reflective answers plus the optional
// writing sample.
type PersonalInsights struct {
	Happy         string         `json:"happy"`
	RoleModel     string         `json:"roleModel"`
	Lesson        string         `json:"lesson"`
	Hobby         string         `json:"hobby"`
	Unique        string         `json:"unique"`
	WritingSample *WritingSample `json:"writingSample,omitempty"`
}

// WritingSample is an optional sample of the student's own writing, used
// to match voice during essay generation.
type WritingSample struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// SelectedTopic is the topic the student picked from the suggestions.
type SelectedTopic struct {
	Prompt          string `json:"prompt"`
	IdeaTitle       string `json:"ideaTitle"`
	IdeaDescription string `json:"ideaDescription"`
}

// TopicIdea is one suggested essay idea for a prompt.
type TopicIdea struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// FollowUpQuestion pairs a stable identifier with the generated question
// text. Responses key on the ID so regeneration never silently orphans
// answers on text changes.
type FollowUpQuestion struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// SupplementalEssay is one generated school-specific essay.
type SupplementalEssay struct {
	Prompt         string `json:"prompt"`
	WordCount      int    `json:"wordCount"`
	GeneratedEssay string `json:"generatedEssay"`
}

// New returns an empty profile with initialized collections.
func New() (p Profile) {
	p = Profile{
		Academics: Academics{
			Subjects: []string{},
			Majors:   []string{},
		},
		CollegeGoals: CollegeGoals{
			CollegeTypes:     []string{},
			SpecificColleges: []string{},
		},
		Activities: ActivitiesSection{
			Activities: []Activity{},
		},
		FollowUpResponses: map[string]string{},
	}
	return p
}
