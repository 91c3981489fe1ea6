package llm

import (
	"fmt"
	"strings"

	"essaypilot/pkg/profile"
)

const topicSystemPrompt = "You are a college admissions expert helping students brainstorm essay topics. Generate specific, personal ideas based on the student's background."

const followUpSystemPrompt = "You are a college admissions expert helping students develop their essays through thoughtful questions. Always respond with properly formatted JSON."

const essaySystemPrompt = "You are a college essay writer that helps students write authentic, personal essays that showcase their unique voice and experiences. When a writing sample is provided, carefully analyze and match the student's writing style. Format the essay with a clear title on its own line, followed by well-structured paragraphs. Avoid using special characters or formatting in the title."

// BuildTopicMessages assembles the topic-suggestion request: two ideas
// for each of the six Common App prompts, as JSON.
func BuildTopicMessages(p profile.Profile) (messages []Message) {
	prompt := fmt.Sprintf(`Based on the following student information, suggest 2 personalized essay ideas for each of the 6 Common App prompts. Format the response as a JSON object where each prompt number (1-6) maps to an array of two idea objects, each with a "title" and "description" field.

Student Information:
%s

Example format:
{
  "1": [
    {
      "title": "Brief catchy title for the first idea",
      "description": "2-3 sentence explanation of how this topic relates to the student's experiences"
    },
    {
      "title": "Brief catchy title for the second idea",
      "description": "2-3 sentence explanation of how this topic relates to the student's experiences"
    }
  ]
}
Repeat for prompts 2-6.`, formatStudentInfo(p))

	messages = []Message{
		{Role: "system", Content: topicSystemPrompt},
		{Role: "user", Content: prompt},
	}
	return messages
}

// BuildFollowUpMessages assembles the follow-up question request for
// the selected prompt and topic idea.
func BuildFollowUpMessages(p profile.Profile, selectedPrompt, selectedIdea string) (messages []Message) {
	prompt := fmt.Sprintf(`As a college admissions expert, generate 5-7 specific follow-up questions to help a student develop their college essay. The questions should help the student provide detailed, reflective responses that will enrich their essay.

Selected Common App Prompt: %q
Student's Chosen Topic: %q

Student Background:
%s

Generate questions that:
1. Are specific to the student's experiences and chosen topic
2. Encourage reflection and personal insight
3. Help draw out concrete details and examples
4. Connect their topic to their broader experiences and goals
5. Help them develop a compelling narrative

Format the response as a JSON object with a "questions" array field containing the questions as strings.`, selectedPrompt, selectedIdea, formatStudentInfo(p))

	messages = []Message{
		{Role: "system", Content: followUpSystemPrompt},
		{Role: "user", Content: prompt},
	}
	return messages
}

// BuildEssayMessages assembles the full essay request from the profile,
// the selected topic and the answered follow-up questions.
func BuildEssayMessages(p profile.Profile, topic profile.SelectedTopic, answers []QA) (messages []Message) {
	writingSampleSection := ""
	styleGuidance := ""
	if sample := p.PersonalInsights.WritingSample; sample != nil && sample.Text != "" {
		title := sample.Title
		if title == "" {
			title = "Sample Writing"
		}
		writingSampleSection = fmt.Sprintf("\nWriting Sample (use this to match the student's style and voice):\nTitle: %s\nContent:\n%s", title, sample.Text)
		styleGuidance = " Use the provided writing sample to match the student's writing style, vocabulary level, and voice."
	}

	var qa strings.Builder
	for i, pair := range answers {
		if i > 0 {
			qa.WriteString("\n\n")
		}
		qa.WriteString(pair.Question)
		qa.WriteString(":\n")
		qa.WriteString(pair.Answer)
	}

	prompt := fmt.Sprintf(`Write a compelling, authentic personal essay based on the information provided below. Start with a clear title that reflects the essay's theme, formatted on its own line without asterisks or special characters. Then, follow the 6-step narrative structure:

1. Open in the middle (hook with sensory details)
2. Provide backstory
3. Reflect on thoughts/feelings
4. Develop the story
5. Reflect again on broader meaning
6. Bring to conclusion%s

Student Information:
%s

Selected Essay Prompt: %s
Selected Topic Idea: %s

Additional Context from Follow-up Questions:
%s

Write a 650-word essay that sounds authentic to a student in the %s of their class.%s The essay should show reflection and personal growth while avoiding cliches and overly formal language. Format with proper paragraphs. The title should be clear and engaging, placed on its own line at the start of the essay without any special characters or formatting.`,
		writingSampleSection, formatStudentInfo(p), topic.Prompt, topic.IdeaTitle, qa.String(), p.Academics.ClassRank, styleGuidance)

	messages = []Message{
		{Role: "system", Content: essaySystemPrompt},
		{Role: "user", Content: prompt},
	}
	return messages
}

// BuildSupplementalMessages assembles a school-specific supplemental
// essay request for the given prompt and word count.
func BuildSupplementalMessages(p profile.Profile, essayPrompt string, wordCount int) (messages []Message) {
	prompt := fmt.Sprintf(`Write a compelling supplemental college application essay responding to the prompt below. Target approximately %d words. Ground the essay in the student's actual background and goals; do not invent accomplishments.

Essay Prompt:
%s

Student Information:
%s

Format with proper paragraphs and no title line.`, wordCount, essayPrompt, formatStudentInfo(p))

	messages = []Message{
		{Role: "system", Content: essaySystemPrompt},
		{Role: "user", Content: prompt},
	}
	return messages
}

// formatStudentInfo renders the profile as the shared student
// information block used by every generation prompt.
func formatStudentInfo(p profile.Profile) (info string) {
	var activities strings.Builder
	for _, activity := range p.Activities.Activities {
		category := activity.Category
		if activity.OtherCategory != "" {
			category = fmt.Sprintf("%s (%s)", category, activity.OtherCategory)
		}
		leadership := activity.Leadership
		if leadership == "" {
			leadership = "None"
		}
		activities.WriteString(fmt.Sprintf("  - %s:\n    Years: %s\n    Leadership: %s\n    Hours per Week: %s\n    Description: %s\n",
			category,
			strings.Join(activity.Years, ", "),
			leadership,
			activity.HoursPerWeek,
			activity.Description))
	}

	info = fmt.Sprintf(`- Class Rank: %s
- Academic Interests: %s
- Potential Majors: %s
- College Preferences: %s
- Activities & Involvement:
%s- Personal Insights:
  What makes you happy: %s
  Role model: %s
  Learning from mistakes: %s
  Hobbies: %s
  Unique perspective: %s`,
		p.Academics.ClassRank,
		strings.Join(p.Academics.Subjects, ", "),
		strings.Join(p.Academics.Majors, ", "),
		strings.Join(p.CollegeGoals.CollegeTypes, ", "),
		activities.String(),
		p.PersonalInsights.Happy,
		p.PersonalInsights.RoleModel,
		p.PersonalInsights.Lesson,
		p.PersonalInsights.Hobby,
		p.PersonalInsights.Unique)

	return info
}
