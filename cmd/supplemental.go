package cmd

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"essaypilot/pkg/profile"
	"essaypilot/pkg/session"
)

//nolint:gochecknoglobals // Cobra boilerplate
var wordCount int

//nolint:gochecknoglobals // Cobra boilerplate
var listSupplemental bool

//nolint:gochecknoglobals // Cobra boilerplate
var supplementalCmd = &cobra.Command{
	Use:   "supplemental [essay-prompt]",
	Short: "Draft a school-specific supplemental essay",
	Long: `Draft a supplemental essay for a specific school's prompt, using the
profile you built in the wizard. Generated essays are saved with your
profile.

Example:
  essaypilot supplemental "Why do you want to attend our university?" --words 250
  essaypilot supplemental --list`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSupplemental,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(supplementalCmd)
	supplementalCmd.Flags().IntVar(&wordCount, "words", 250, "Target word count")
	supplementalCmd.Flags().BoolVar(&listSupplemental, "list", false, "List saved supplemental essays instead of generating")
}

func runSupplemental(cmd *cobra.Command, args []string) (err error) {
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

	if listSupplemental {
		printSupplementalList(sess.Profile())
		return err
	}

	if len(args) == 0 {
		err = errors.New("an essay prompt is required unless --list is set")
		return err
	}
	essayPrompt := args[0]

	var result profile.SupplementalEssay
	err = withSpinner("Drafting supplemental essay...", func() (genErr error) {
		result, genErr = sess.GenerateSupplemental(ctx, essayPrompt, wordCount)
		return genErr
	})
	if err != nil {
		err = describeGenerationError(err, "supplemental essay")
		return err
	}

	fmt.Println(result.GeneratedEssay)

	err = sess.Flush(ctx)
	if err != nil {
		err = errors.Wrap(err, "failed to save supplemental essay")
		return err
	}

	return err
}

func printSupplementalList(p profile.Profile) {
	if len(p.SupplementalEssays) == 0 {
		fmt.Println("No supplemental essays saved yet.")
		return
	}

	for i, essay := range p.SupplementalEssays {
		fmt.Printf("%d. [%d words] %s\n\n%s\n\n", i+1, essay.WordCount, essay.Prompt, essay.GeneratedEssay)
	}
}
