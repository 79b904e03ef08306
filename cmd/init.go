package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cardpress/cardpress/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Configure the current project interactively",
	Long:  `Runs an interactive wizard and writes the answers to .cardpress.yml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
