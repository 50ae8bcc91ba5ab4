package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"nexus-assist/internal/generation"
	"nexus-assist/internal/model"
	"nexus-assist/internal/narrative"
	"nexus-assist/internal/session"

	"github.com/spf13/cobra"
)

var (
	flagVersions int
	flagResume   string
	flagThenSMF  bool
	flagFormat   string
	flagOut      string
)

var narrativeCmd = &cobra.Command{
	Use:   "narrative",
	Short: "Write, review and export incident narratives",
}

var narrativeNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Fill in the incident form and generate a narrative",
	Long: `Walks through the three steps of the incident form. Answers are
autosaved as you go; the draft can be resumed with --resume.`,
	RunE: runNarrativeNew,
}

func runNarrativeNew(cmd *cobra.Command, args []string) error {
	userID, err := nx.userID()
	if err != nil {
		return err
	}

	c, err := narrative.NewComposer(nx.client, userID, narrative.ComposerOptions{
		Interval:     nx.cfg.Autosave.Interval,
		VersionCount: flagVersions,
		DraftID:      flagResume,
	})
	if err != nil {
		return err
	}

	if flagResume != "" {
		res := nx.client.GetDraft(nx.ctx, flagResume)
		if !res.Success {
			return report(nx, res)
		}
		c.Resume(res.Data)
	}

	c.Start(nx.ctx)
	defer c.Close(nx.ctx)

	w := c.Wizard()
	for {
		last := w.Last()
		nx.println(titleStyle.Render(fmt.Sprintf("Step %d of %d", w.Step(), narrative.Steps)))
		if err := fillStep(c, w.Step()); err != nil {
			return err
		}
		if err := w.Next(); err != nil {
			var verr *generation.ValidationError
			if errors.As(err, &verr) {
				nx.toasts.Warning(verr.Error())
				continue
			}
			return err
		}
		if last {
			break
		}
	}

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	res, err := generateNarrative(c, interrupts)
	signal.Stop(interrupts)
	if err != nil {
		return err
	}
	if !res.Success && res.Message == generation.StoppedMessage {
		nx.toasts.Info("Draft kept. Continue later with --resume " + c.DraftID())
		return nil
	}
	if err := report(nx, res); err != nil {
		return err
	}

	for i, v := range res.Data.Variants {
		nx.println(headingStyle.Render(fmt.Sprintf("Version %d", i+1)))
		if err := nx.present(v); err != nil {
			return err
		}
	}
	nx.printf("%s %s\n", mutedStyle.Render("Draft:"), res.Data.ID)

	nx.scratch.Set(session.KeyDraftID, res.Data.ID)
	if len(res.Data.Variants) > 0 {
		nx.scratch.Set(session.KeyNarrative, res.Data.Variants[0])
	}
	if flagThenSMF {
		return runSMFGenerate(cmd, args)
	}
	return nil
}

// generateNarrative submits the draft. An interrupt stops the request and
// the user is asked whether to send it again.
func generateNarrative(c *narrative.Composer, interrupts <-chan os.Signal) (model.Result[generation.Output], error) {
	for {
		// Ctrl+C pressed at the retry prompt must not stop the next attempt
		for len(interrupts) > 0 {
			<-interrupts
		}

		nx.println(mutedStyle.Render("Generating... press Ctrl+C to stop"))
		done, exited := make(chan struct{}), make(chan struct{})
		go func() {
			defer close(exited)
			select {
			case <-interrupts:
				if c.Stop() {
					nx.toasts.Warning(generation.StoppedMessage)
				}
			case <-done:
			}
		}()
		res := c.Generate(nx.ctx)
		close(done)
		<-exited

		if res.Success || res.Message != generation.StoppedMessage {
			return res, nil
		}
		answer, err := nx.prompt("Try again? [y/N]")
		if err != nil {
			return res, err
		}
		if a := strings.ToLower(answer); a != "y" && a != "yes" {
			return res, nil
		}
	}
}

// fillStep prompts for the fields of step n, showing the current value as
// the default.
func fillStep(c *narrative.Composer, n int) error {
	current := c.Manager().Fields()
	for _, f := range narrative.StepFields(n) {
		label := f.Label
		if f.Name == narrative.FieldExhibits {
			label += " (comma separated)"
		}
		if v := current[f.Name]; v != "" {
			label += " [" + v + "]"
		}
		value, err := nx.prompt(label)
		if err != nil {
			return err
		}
		if value != "" {
			c.Set(f.Name, value)
		}
	}
	return nil
}

var narrativeShowCmd = &cobra.Command{
	Use:   "show <draft-id>",
	Short: "Show a draft and its generated versions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res := nx.client.GetDraft(nx.ctx, args[0])
		if !res.Success {
			return report(nx, res)
		}
		printDraft(res.Data)
		return nil
	},
}

func printDraft(d model.Draft) {
	nx.printf("%s %s\n", titleStyle.Render(d.DraftID), mutedStyle.Render(d.Status))
	values := narrative.FromDraft(d)
	for _, f := range narrative.Catalogue {
		if v := values[f.Name]; v != "" {
			nx.printf("%s %s\n", labelStyle.Render(f.Label+":"), v)
		}
	}
	for i, v := range d.Versions {
		nx.println()
		nx.println(headingStyle.Render(fmt.Sprintf("Version %d", i+1)))
		nx.println(v.Content)
	}
}

var narrativeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your drafts",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := nx.userID()
		if err != nil {
			return err
		}
		res := nx.client.ListDrafts(nx.ctx, userID)
		if !res.Success {
			return report(nx, res)
		}
		if len(res.Data.Drafts) == 0 {
			nx.println(mutedStyle.Render("No drafts yet"))
			return nil
		}
		for _, d := range res.Data.Drafts {
			nx.printf("%s  %-9s  %s  %s\n", d.DraftID, d.Status,
				d.UpdatedAt.Format("2006-01-02 15:04"), d.Location)
		}
		return nil
	},
}

var narrativeExportCmd = &cobra.Command{
	Use:   "export <draft-id>",
	Short: "Download a narrative as pdf, html or txt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res := nx.client.ExportNarrative(nx.ctx, args[0], flagFormat)
		if !res.Success {
			return report(nx, res)
		}
		path, err := writeExport(res.Data, flagOut)
		if err != nil {
			return err
		}
		nx.toasts.Success("Saved " + path)
		return nil
	},
}

func registerNarrative() {
	narrativeNewCmd.Flags().IntVar(&flagVersions, "versions", 1, "Number of versions to generate (1-5)")
	narrativeNewCmd.Flags().StringVar(&flagResume, "resume", "", "Resume an existing draft")
	narrativeNewCmd.Flags().BoolVar(&flagThenSMF, "smf", false, "Build a Statement of Material Facts from the first version")
	narrativeExportCmd.Flags().StringVarP(&flagFormat, "format", "f", "pdf", "Export format: pdf, html or txt")
	narrativeExportCmd.Flags().StringVarP(&flagOut, "out", "o", "", "Output file (default: server filename)")

	narrativeCmd.AddCommand(narrativeNewCmd, narrativeShowCmd, narrativeListCmd, narrativeExportCmd)
	rootCmd.AddCommand(narrativeCmd)
}
