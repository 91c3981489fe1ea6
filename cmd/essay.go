package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"essaypilot/pkg/config"
	"essaypilot/pkg/export"
	"essaypilot/pkg/session"
)

//nolint:gochecknoglobals // Cobra boilerplate
var regenerate bool

//nolint:gochecknoglobals // Cobra boilerplate
var exportPath string

//nolint:gochecknoglobals // Cobra boilerplate
var essayCmd = &cobra.Command{
	Use:   "essay",
	Short: "Show, export, or regenerate the drafted essay",
	Long: `Show the most recent essay draft without re-entering the wizard.

Example:
  essaypilot essay
  essaypilot essay --export essay.txt
  essaypilot essay --regenerate`,
	RunE: runEssay,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(essayCmd)
	essayCmd.Flags().BoolVar(&regenerate, "regenerate", false, "Draft a fresh essay, replacing the stored one")
	essayCmd.Flags().StringVar(&exportPath, "export", "", "Write the essay to this file")
}

func runEssay(cmd *cobra.Command, args []string) (err error) {
	ctx := context.Background()

	var sess *session.Session
	var cfg config.Config
	var cleanup func()
	sess, cfg, cleanup, err = buildSession()
	if err != nil {
		return err
	}
	defer cleanup()

	err = sess.Start(ctx)
	if err != nil {
		err = errors.Wrap(err, "failed to start session")
		return err
	}

	p := sess.Profile()
	essay := p.GeneratedEssay

	if regenerate {
		err = withSpinner("Redrafting your essay...", func() (genErr error) {
			essay, genErr = sess.RegenerateEssay(ctx)
			return genErr
		})
		if err != nil {
			err = describeGenerationError(err, "essay")
			return err
		}
		err = sess.Flush(ctx)
		if err != nil {
			err = errors.Wrap(err, "failed to save regenerated essay")
			return err
		}
	}

	if essay == "" {
		err = errors.New("no essay drafted yet; run 'essaypilot wizard' first")
		return err
	}

	printEssay(essay)

	if exportPath != "" {
		path := exportPath
		if cfg.Defaults.ExportDir != "" && !filepath.IsAbs(path) {
			path = filepath.Join(cfg.Defaults.ExportDir, path)
		}
		err = export.WriteEssay(essay, path)
		if err != nil {
			return err
		}
		fmt.Printf("\nEssay written to %s\n", path)
	}

	return err
}
