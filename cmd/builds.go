package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var buildsCmd = &cobra.Command{
	Use:   "builds",
	Short: "Show recent generation runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		builds, err := openBuildLog(cfg)
		if err != nil {
			return fmt.Errorf("opening build log: %w", err)
		}
		defer builds.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		recent, err := builds.Recent(limit)
		if err != nil {
			return err
		}
		if len(recent) == 0 {
			fmt.Println("No builds recorded yet. Run `cardpress make` first.")
			return nil
		}

		for _, b := range recent {
			kind := ""
			if b.Preview {
				kind = " (preview)"
			}
			problems := ""
			if b.Errors > 0 || b.Warnings > 0 {
				problems = fmt.Sprintf(", %d errors, %d warnings", b.Errors, b.Warnings)
			}
			fmt.Printf("%s%s  %d cards on %d pages in %s%s\n    %s\n",
				b.Timestamp.Local().Format(time.DateTime), kind,
				b.Cards, b.Pages, b.Duration.Round(time.Millisecond), problems,
				strings.Join(b.Datasources, ", "))
		}
		return nil
	},
}

func init() {
	buildsCmd.Flags().Int("limit", 10, "number of builds to show")
	rootCmd.AddCommand(buildsCmd)
}
