package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cardpress/cardpress/internal/scaffold"
)

var newCmd = &cobra.Command{
	Use:   "new [name...]",
	Short: "Create a starter project with a sample deck",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.ToLower(strings.Join(args, "-"))
		root, err := scaffold.Create(name)
		if err != nil {
			return err
		}
		fmt.Printf("Created %s/\n", root)
		fmt.Printf("Next: cd %s && cardpress make\n", root)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}
