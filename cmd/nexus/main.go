package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool

	nx *app
)

var rootCmd = &cobra.Command{
	Use:   "nexus",
	Short: "Nexus - documentation assistant for frontline officers",
	Long: `Nexus turns incident notes into narratives and Statements of Material
Facts, and answers legal questions.

Sign in with 'nexus login' first; the session is kept between runs.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, configPath, verbose)
		if err != nil {
			return err
		}
		nx = a
		return nil
	},
}

// closeApp runs after every command, including failed ones.
func closeApp() {
	if nx != nil {
		nx.Close()
		nx = nil
	}
}

func init() {
	cobra.OnFinalize(closeApp)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	registerAuth()
	registerNarrative()
	registerSMF()
	registerChat()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
