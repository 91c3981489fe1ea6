package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"essaypilot/pkg/export"
	"essaypilot/pkg/pipeline"
	"essaypilot/pkg/profile"
	"essaypilot/pkg/sample"
	"essaypilot/pkg/session"
	"essaypilot/pkg/wizard"
)

//nolint:gochecknoglobals // Cobra boilerplate
var restart bool

//nolint:gochecknoglobals // Cobra boilerplate
var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Run the guided essay wizard",
	Long: `Run the interactive essay wizard.

The wizard walks through your background, academics, college goals,
activities, and personal insights, then suggests essay topics, asks
follow-up questions about your chosen topic, and drafts your essay.

Every answer is saved as you go. Quit at any time and run the wizard
again to pick up where you left off.

Example:
  essaypilot wizard
  essaypilot wizard --restart`,
	RunE: runWizard,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(wizardCmd)
	wizardCmd.Flags().BoolVar(&restart, "restart", false, "Discard saved progress and start over")
}

func runWizard(cmd *cobra.Command, args []string) (err error) {
	ctx := context.Background()

	var sess *session.Session
	var cleanup func()
	sess, _, cleanup, err = buildSession()
	if err != nil {
		return err
	}
	defer cleanup()

	err = sess.Start(ctx)
	if err != nil {
		err = errors.Wrap(err, "failed to start session")
		return err
	}

	if restart {
		err = sess.Reset(ctx)
		if err != nil {
			return err
		}
		fmt.Println("Saved progress cleared. Starting over.")
	}

	fmt.Println("Welcome to essaypilot. Press enter to keep a shown value.")
	fmt.Println()

	for {
		step := sess.CurrentStep()
		var done bool
		done, err = runStep(ctx, sess, step)
		if err != nil {
			return err
		}
		if done {
			break
		}
	}

	err = sess.Flush(ctx)
	if err != nil {
		err = errors.Wrap(err, "failed to save progress")
		return err
	}

	return err
}

// runStep dispatches one wizard step. done is true when the user is
// finished, either at the result step or by quitting early.
func runStep(ctx context.Context, sess *session.Session, step wizard.StepID) (done bool, err error) {
	switch step {
	case wizard.StepBasicInfo:
		runBasicInfoStep(sess)
	case wizard.StepAcademics:
		runAcademicsStep(sess)
	case wizard.StepCollegeGoals:
		runCollegeGoalsStep(sess)
	case wizard.StepActivities:
		runActivitiesStep(sess)
	case wizard.StepPersonalInsights:
		runPersonalInsightsStep(sess)
	case wizard.StepEssayTypeChoice:
		done, err = runEssayTypeStep(ctx, sess)
		return done, err
	case wizard.StepTopics:
		done, err = runTopicsStep(ctx, sess)
		return done, err
	case wizard.StepFollowup:
		done, err = runFollowupStep(ctx, sess)
		return done, err
	case wizard.StepResult:
		err = runResultStep(ctx, sess)
		done = true
		return done, err
	default:
		err = errors.Errorf("unknown wizard step: %s", step)
		return done, err
	}

	_, moved := sess.Next(ctx)
	if !moved {
		fmt.Println("\nThis step still has required fields. Let's go through it again.")
	}
	return done, err
}

func runBasicInfoStep(sess *session.Session) {
	fmt.Println("--- Basic Info ---")
	p := sess.Profile()

	name := promptForInputDefault("Full name", p.BasicInfo.FullName)
	email := promptForInputDefault("Email", p.BasicInfo.Email)

	sess.Dispatch(profile.UpdateBasicInfo{FullName: &name, Email: &email})
	fmt.Println()
}

func runAcademicsStep(sess *session.Session) {
	fmt.Println("--- Academics ---")
	p := sess.Profile()

	rank := promptForChoice("Class rank", profile.ClassRankOptions, p.Academics.ClassRank)
	gpa := promptForInputDefault("GPA (optional)", p.Academics.GPA)
	subjects := promptForList("Favorite subjects (comma separated)", p.Academics.Subjects)
	majors := promptForList("Intended majors (comma separated, optional)", p.Academics.Majors)

	sess.Dispatch(profile.UpdateAcademics{
		ClassRank: &rank,
		GPA:       &gpa,
		Subjects:  subjects,
		Majors:    majors,
	})
	fmt.Println()
}

func runCollegeGoalsStep(sess *session.Session) {
	fmt.Println("--- College Goals ---")
	p := sess.Profile()

	types := promptForList("College types you're considering (e.g. public, private, liberal arts)", p.CollegeGoals.CollegeTypes)
	sess.Dispatch(profile.UpdateCollegeGoals{CollegeTypes: types})

	if len(p.CollegeGoals.SpecificColleges) > 0 {
		fmt.Printf("Colleges on your list: %s\n", strings.Join(p.CollegeGoals.SpecificColleges, ", "))
	}
	for {
		college := promptForInput("Add a specific college (enter to finish)")
		if college == "" {
			break
		}
		sess.Dispatch(profile.AddSpecificCollege{Name: college})
	}
	fmt.Println()
}

func runActivitiesStep(sess *session.Session) {
	fmt.Println("--- Activities & Involvement ---")
	p := sess.Profile()

	if len(p.Activities.Activities) > 0 {
		fmt.Println("Current activities:")
		for i, activity := range p.Activities.Activities {
			fmt.Printf("  %d. %s\n", i+1, describeActivity(activity))
		}
	} else {
		fmt.Println("No activities yet. This section is optional but strengthens your essay.")
	}

	for {
		answer := promptForInput("Add an activity? (y/n)")
		if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
			break
		}
		sess.Dispatch(profile.AppendActivity{Activity: promptForActivity()})
	}
	fmt.Println()
}

func promptForActivity() (activity profile.Activity) {
	activity.Category = promptForChoice("Category", profile.ActivityCategories, "")
	if activity.Category == "other" {
		activity.OtherCategory = promptForInput("Describe the category")
	}

	years := promptForList("Years involved (9th, 10th, 11th, 12th)", nil)
	for _, year := range years {
		for _, valid := range profile.GradeYears {
			if strings.EqualFold(year, valid) {
				activity.Years = append(activity.Years, valid)
			}
		}
	}

	activity.Leadership = promptForInput("Leadership role (optional)")
	activity.Description = promptForInput("Brief description (optional)")
	activity.HoursPerWeek = promptForChoice("Hours per week", profile.HoursPerWeekOptions, "")
	return activity
}

func describeActivity(activity profile.Activity) (desc string) {
	category := activity.Category
	if activity.OtherCategory != "" {
		category = activity.OtherCategory
	}
	desc = fmt.Sprintf("%s, %s hrs/week, years %s", category, activity.HoursPerWeek, strings.Join(activity.Years, "/"))
	if activity.Leadership != "" {
		desc = fmt.Sprintf("%s, %s", desc, activity.Leadership)
	}
	return desc
}

func runPersonalInsightsStep(sess *session.Session) {
	fmt.Println("--- Personal Insights ---")
	fmt.Println("These answers give the essay its raw material. Skip any with enter.")
	p := sess.Profile()

	happy := promptForInputDefault("What makes you genuinely happy?", p.PersonalInsights.Happy)
	roleModel := promptForInputDefault("Who is your role model, and why?", p.PersonalInsights.RoleModel)
	lesson := promptForInputDefault("What is a hard lesson you've learned?", p.PersonalInsights.Lesson)
	hobby := promptForInputDefault("What hobby could you talk about for hours?", p.PersonalInsights.Hobby)
	unique := promptForInputDefault("What makes you different from your classmates?", p.PersonalInsights.Unique)

	sess.Dispatch(profile.UpdatePersonalInsights{
		Happy:     &happy,
		RoleModel: &roleModel,
		Lesson:    &lesson,
		Hobby:     &hobby,
		Unique:    &unique,
	})

	if p.PersonalInsights.WritingSample == nil {
		source := promptForInput("Writing sample file or URL (optional, enter to skip)")
		if source != "" {
			text, err := sample.Fetch(source)
			if err != nil {
				fmt.Printf("Could not load writing sample: %v\n", err)
			} else {
				title := promptForInput("Writing sample title")
				sess.Dispatch(profile.SetWritingSample{Sample: &profile.WritingSample{
					Title: title,
					Text:  text,
				}})
				fmt.Println("Writing sample attached.")
			}
		}
	} else {
		fmt.Printf("Writing sample on file: %s\n", p.PersonalInsights.WritingSample.Title)
	}
	fmt.Println()
}

func runEssayTypeStep(ctx context.Context, sess *session.Session) (done bool, err error) {
	fmt.Println("--- Essay Type ---")
	choice := promptForChoice("What would you like to write?", []string{
		"Common App personal essay",
		"Supplemental (school-specific) essay",
	}, "Common App personal essay")

	if strings.HasPrefix(choice, "Supplemental") {
		err = runSupplementalFlow(ctx, sess)
		if err != nil {
			return done, err
		}
		// Supplemental essays are a side quest; return to the choice.
		return done, err
	}

	_, moved := sess.Next(ctx)
	if !moved {
		err = errors.New("could not advance past essay type choice")
	}
	return done, err
}

func runSupplementalFlow(ctx context.Context, sess *session.Session) (err error) {
	essayPrompt := promptForInput("Paste the school's essay prompt")
	if essayPrompt == "" {
		fmt.Println("No prompt entered.")
		return err
	}

	wordsText := promptForInputDefault("Word count target", "250")
	words, convErr := strconv.Atoi(wordsText)
	if convErr != nil || words <= 0 {
		words = 250
	}

	var result profile.SupplementalEssay
	err = withSpinner("Drafting supplemental essay...", func() (genErr error) {
		result, genErr = sess.GenerateSupplemental(ctx, essayPrompt, words)
		return genErr
	})
	if err != nil {
		err = describeGenerationError(err, "supplemental essay")
		return err
	}

	fmt.Println("\n--- Supplemental Essay ---")
	fmt.Println(result.GeneratedEssay)
	fmt.Println()
	return err
}

func runTopicsStep(ctx context.Context, sess *session.Session) (done bool, err error) {
	fmt.Println("--- Essay Topics ---")

	var suggestions map[string][]profile.TopicIdea
	for {
		err = withSpinner("Generating topic ideas from your profile...", func() (genErr error) {
			suggestions, genErr = sess.EnterTopics(ctx, false)
			return genErr
		})
		if err == nil {
			break
		}

		fmt.Println(describeGenerationError(err, "topic suggestions"))
		answer := promptForInput("Try again? (y/n)")
		if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
			done = true
			err = nil
			return done, err
		}
		err = withSpinner("Generating topic ideas from your profile...", func() (genErr error) {
			suggestions, genErr = sess.RegenerateTopics(ctx)
			return genErr
		})
		if err == nil {
			break
		}
	}

	type listedIdea struct {
		promptNumber string
		idea         profile.TopicIdea
	}
	var ideas []listedIdea

	for _, number := range profile.PromptNumbers {
		promptIdeas := suggestions[number]
		if len(promptIdeas) == 0 {
			continue
		}
		fmt.Printf("\nPrompt %s: %s\n", number, profile.CommonAppPrompts[number])
		for _, idea := range promptIdeas {
			ideas = append(ideas, listedIdea{promptNumber: number, idea: idea})
			fmt.Printf("  %d. %s\n     %s\n", len(ideas), idea.Title, idea.Description)
		}
	}

	if len(ideas) == 0 {
		err = errors.New("no topic ideas were generated")
		return done, err
	}

	p := sess.Profile()
	if p.SelectedTopic != nil {
		fmt.Printf("\nCurrently selected: %s\n", p.SelectedTopic.IdeaTitle)
	}

	for {
		text := promptForInput("\nPick a topic by number (r to regenerate, q to quit)")
		if strings.EqualFold(text, "q") {
			done = true
			return done, err
		}
		if strings.EqualFold(text, "r") {
			done, err = runTopicsRegenerate(ctx, sess)
			return done, err
		}

		index, convErr := strconv.Atoi(text)
		if convErr != nil || index < 1 || index > len(ideas) {
			fmt.Println("Please enter a number from the list.")
			continue
		}

		chosen := ideas[index-1]
		sess.SelectTopic(chosen.promptNumber, chosen.idea)
		fmt.Printf("Selected: %s\n\n", chosen.idea.Title)
		break
	}

	_, moved := sess.Next(ctx)
	if !moved {
		err = errors.New("could not advance past topic selection")
	}
	return done, err
}

// runTopicsRegenerate forces fresh suggestions then re-runs the step.
func runTopicsRegenerate(ctx context.Context, sess *session.Session) (done bool, err error) {
	err = withSpinner("Regenerating topic ideas...", func() (genErr error) {
		_, genErr = sess.RegenerateTopics(ctx)
		return genErr
	})
	if err != nil {
		fmt.Println(describeGenerationError(err, "topic suggestions"))
		err = nil
	}
	done, err = runTopicsStep(ctx, sess)
	return done, err
}

func runFollowupStep(ctx context.Context, sess *session.Session) (done bool, err error) {
	fmt.Println("--- Follow-up Questions ---")

	var questions []profile.FollowUpQuestion
	err = withSpinner("Preparing questions about your topic...", func() (genErr error) {
		questions, genErr = sess.EnterFollowup(ctx, false)
		return genErr
	})
	if err != nil {
		return done, err
	}

	fmt.Printf("Answer at least %d of these %d questions. Enter keeps a saved answer.\n", wizard.MinAnsweredFollowUps, len(questions))

	p := sess.Profile()
	for i, question := range questions {
		fmt.Printf("\n%d/%d: %s\n", i+1, len(questions), question.Text)
		answer := promptForInputDefault("Your answer", p.FollowUpResponses[question.ID])
		if answer != "" {
			sess.AnswerFollowUp(question.ID, answer)
		}
	}

	answered := profile.AnsweredFollowUpCount(sess.Profile())
	if answered < wizard.MinAnsweredFollowUps {
		fmt.Printf("\nOnly %d answered; %d are needed before drafting. Let's continue.\n", answered, wizard.MinAnsweredFollowUps)
		return done, err
	}

	fmt.Println()
	_, moved := sess.Next(ctx)
	if !moved {
		err = errors.New("could not advance past follow-up questions")
	}
	return done, err
}

func runResultStep(ctx context.Context, sess *session.Session) (err error) {
	fmt.Println("--- Your Essay ---")

	var essay string
	err = withSpinner("Drafting your essay...", func() (genErr error) {
		essay, _, genErr = sess.EnterResult(ctx)
		return genErr
	})
	if err != nil {
		err = describeGenerationError(err, "essay")
		return err
	}

	printEssay(essay)

	for {
		text := promptForInput("\n(r)egenerate, (e)xport to file, or (q)uit")
		switch strings.ToLower(text) {
		case "r":
			err = withSpinner("Redrafting your essay...", func() (genErr error) {
				essay, genErr = sess.RegenerateEssay(ctx)
				return genErr
			})
			if err != nil {
				fmt.Println(describeGenerationError(err, "essay"))
				err = nil
				continue
			}
			printEssay(essay)
		case "e":
			path := promptForInputDefault("Export path", "essay.txt")
			err = export.WriteEssay(essay, path)
			if err != nil {
				fmt.Printf("Export failed: %v\n", err)
				err = nil
				continue
			}
			fmt.Printf("Essay written to %s\n", path)
		case "q", "":
			return err
		default:
			fmt.Println("Please enter r, e, or q.")
		}
	}
}

func printEssay(essay string) {
	stats := export.EssayStats(essay)
	fmt.Println()
	fmt.Println(essay)
	fmt.Printf("\n%d words, %d paragraphs\n", stats.WordCount, stats.Paragraphs)
}

// describeGenerationError turns pipeline failures into actionable
// messages, distinguishing rate limits from everything else.
func describeGenerationError(err error, what string) (out error) {
	if pipeline.IsRateLimited(err) {
		out = errors.Errorf("the AI service is rate limited; wait a minute and try generating %s again", what)
		return out
	}
	out = errors.Wrapf(err, "failed to generate %s", what)
	return out
}

// promptForList reads a comma-separated list, keeping current values on
// empty input. Returns nil when nothing changed so partial updates
// leave the stored list alone.
func promptForList(label string, current []string) (values []string) {
	shown := label
	if len(current) > 0 {
		shown = fmt.Sprintf("%s [%s]", label, strings.Join(current, ", "))
	}

	text := promptForInput(shown)
	if text == "" {
		return values
	}

	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}
	return values
}
