package main

import (
	"fmt"
	"os"
	"strings"

	"nexus-assist/internal/model"
	"nexus-assist/internal/session"
	"nexus-assist/internal/smf"

	"github.com/spf13/cobra"
)

var (
	flagNarrativeFile string
	flagFromDraft     string
	flagOfficer       string
	flagReference     string
	flagExport        string
)

var smfCmd = &cobra.Command{
	Use:   "smf",
	Short: "Build Statements of Material Facts",
}

var smfGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Convert a narrative into a Statement of Material Facts",
	Long: `The narrative is read from --file, taken from the latest version of
--draft, or typed in when neither is given.`,
	RunE: runSMFGenerate,
}

func runSMFGenerate(cmd *cobra.Command, args []string) error {
	userID, err := nx.userID()
	if err != nil {
		return err
	}

	fields := map[string]string{
		smf.FieldOfficerName: flagOfficer,
		smf.FieldReferenceID: flagReference,
	}
	switch {
	case flagNarrativeFile != "":
		b, err := os.ReadFile(flagNarrativeFile)
		if err != nil {
			return err
		}
		fields[smf.FieldNarrative] = string(b)
	case flagFromDraft != "":
		res := nx.client.GetDraft(nx.ctx, flagFromDraft)
		if !res.Success {
			return report(nx, res)
		}
		if n := len(res.Data.Versions); n > 0 {
			fields[smf.FieldNarrative] = res.Data.Versions[n-1].Content
		}
		fields[smf.FieldNarrativeID] = flagFromDraft
	case hasScratchNarrative():
		fields[smf.FieldNarrative], _ = nx.scratch.Get(session.KeyNarrative)
		fields[smf.FieldNarrativeID], _ = nx.scratch.Get(session.KeyDraftID)
	default:
		text, err := nx.prompt("Narrative")
		if err != nil {
			return err
		}
		fields[smf.FieldNarrative] = text
	}

	b := smf.NewBuilder(nx.client, userID)
	res := b.Generate(nx.ctx, fields)
	if err := report(nx, res); err != nil {
		return err
	}
	if err := nx.present(res.Data.Content); err != nil {
		return err
	}
	nx.printf("%s %s\n", mutedStyle.Render("SMF:"), res.Data.SMFID)
	nx.scratch.Set(session.KeySMFID, res.Data.SMFID)

	if flagExport == "" {
		return nil
	}
	out := b.Export(nx.ctx, flagExport)
	if !out.Success {
		return report(nx, out)
	}
	path, err := writeExport(out.Data, flagOut)
	if err != nil {
		return err
	}
	nx.toasts.Success("Saved " + path)
	return nil
}

var smfListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your statements",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := nx.userID()
		if err != nil {
			return err
		}
		res := nx.client.ListSMFs(nx.ctx, userID)
		if !res.Success {
			return report(nx, res)
		}
		if len(res.Data.SMFs) == 0 {
			nx.println(mutedStyle.Render("No statements yet"))
			return nil
		}
		for _, s := range res.Data.SMFs {
			nx.printf("%s  %s  %s\n", s.SMFID, s.CreatedAt.Format("2006-01-02 15:04"), firstLine(s.Narrative, 60))
		}
		return nil
	},
}

// hasScratchNarrative reports whether an earlier step of this run left a
// narrative for the builder.
func hasScratchNarrative() bool {
	v, ok := nx.scratch.Get(session.KeyNarrative)
	return ok && v != ""
}

func firstLine(s string, max int) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if r := []rune(s); len(r) > max {
		return string(r[:max]) + "…"
	}
	return s
}

var smfExportCmd = &cobra.Command{
	Use:   "export <smf-id>",
	Short: "Download a statement as pdf, html or txt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res := nx.client.ExportSMF(nx.ctx, model.ExportSMFRequest{SMFID: args[0], Format: flagFormat})
		if !res.Success {
			return report(nx, res)
		}
		path, err := writeExport(res.Data, flagOut)
		if err != nil {
			return err
		}
		nx.toasts.Success(fmt.Sprintf("Saved %s (%d bytes)", path, len(res.Data.Body)))
		return nil
	},
}

func registerSMF() {
	smfGenerateCmd.Flags().StringVar(&flagNarrativeFile, "file", "", "Read the narrative from a file")
	smfGenerateCmd.Flags().StringVar(&flagFromDraft, "draft", "", "Use the latest version of a narrative draft")
	smfGenerateCmd.Flags().StringVar(&flagOfficer, "officer", "", "Officer name")
	smfGenerateCmd.Flags().StringVar(&flagReference, "reference", "", "Reference id")
	smfGenerateCmd.Flags().StringVar(&flagExport, "export", "", "Also export as pdf, html or txt")
	smfGenerateCmd.Flags().StringVarP(&flagOut, "out", "o", "", "Export output file")
	smfExportCmd.Flags().StringVarP(&flagFormat, "format", "f", "pdf", "Export format: pdf, html or txt")
	smfExportCmd.Flags().StringVarP(&flagOut, "out", "o", "", "Output file (default: server filename)")

	smfCmd.AddCommand(smfGenerateCmd, smfListCmd, smfExportCmd)
	rootCmd.AddCommand(smfCmd)
}
