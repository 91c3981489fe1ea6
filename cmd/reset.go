package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"essaypilot/pkg/session"
)

//nolint:gochecknoglobals // Cobra boilerplate
var resetYes bool

//nolint:gochecknoglobals // Cobra boilerplate
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard all saved progress",
	Long: `Discard the saved profile, topic suggestions, follow-up answers, and
generated essays, and rewind the wizard to the first step.

Example:
  essaypilot reset
  essaypilot reset --yes`,
	RunE: runReset,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runReset(cmd *cobra.Command, args []string) (err error) {
	ctx := context.Background()

	if !resetYes {
		answer := promptForInput("This deletes all saved answers and essays. Continue? (y/n)")
		if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
			fmt.Println("Aborted.")
			return err
		}
	}

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

	err = sess.Reset(ctx)
	if err != nil {
		return err
	}

	fmt.Println("All progress cleared.")
	return err
}
