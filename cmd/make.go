package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cardpress/cardpress/internal/buildlog"
	"github.com/cardpress/cardpress/internal/generator"
	"github.com/cardpress/cardpress/internal/progress"
	"github.com/cardpress/cardpress/internal/warning"
)

var makeCmd = &cobra.Command{
	Use:   "make [datasource...]",
	Short: "Generate the printable deck from your CSV datasources",
	Long: `Renders every datasource into a printable HTML deck under the output
directory. Explicit datasource paths override discovery; otherwise every
CSV under the project matching the configured include patterns is used.`,
	RunE: runMake,
}

func init() {
	makeCmd.Flags().Bool("preview", false, "render a single copy of each card into the preview directory")
	makeCmd.Flags().Bool("force-page-breaks", false, "start every datasource on a fresh page")
	makeCmd.Flags().Bool("disable-backs", false, "skip card backs even when the data provides them")
	makeCmd.Flags().String("output", "", "output directory (overrides config)")
	rootCmd.AddCommand(makeCmd)
}

func runMake(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	preview, _ := cmd.Flags().GetBool("preview")
	forceBreaks, _ := cmd.Flags().GetBool("force-page-breaks")
	disableBacks, _ := cmd.Flags().GetBool("disable-backs")
	output, _ := cmd.Flags().GetString("output")

	if output == "" {
		output = cfg.OutputDir
		if preview {
			output = cfg.PreviewDir
		}
	}

	datasources := args
	if len(datasources) == 0 {
		datasources = cfg.Datasources
	}

	display := warning.NewDisplay(cfg.Verbose)
	result, err := generator.Generate(context.Background(), generator.Options{
		ProjectRoot:     ".",
		OutputPath:      output,
		Datasources:     datasources,
		Patterns:        cfg.Include,
		DefinitionsPath: cfg.Definitions,
		DefaultSize:     cfg.CardSize,
		Preview:         preview,
		ForcePageBreaks: forceBreaks || cfg.ForcePageBreaks,
		DisableBacks:    disableBacks || cfg.DisableBacks,
		Version:         Version,
		Display:         display,
		Reporter:        progress.NewReporter(),
	})
	if err != nil {
		return err
	}

	unchanged := false
	if builds, logErr := openBuildLog(cfg); logErr == nil {
		defer builds.Close()
		hash := buildlog.HashInputs(result.Datasources)
		if recent, err := builds.Recent(1); err == nil && len(recent) > 0 {
			unchanged = recent[0].InputHash == hash
		}
		_, recordErr := builds.Record(buildlog.Build{
			Datasources: result.Datasources,
			InputHash:   hash,
			Cards:       result.Cards,
			Pages:       result.Pages,
			Warnings:    result.Warnings,
			Errors:      result.Errors,
			Duration:    result.Duration,
			Preview:     preview,
		})
		if recordErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not record build: %v\n", recordErr)
		}
	}

	fmt.Printf("Generated %d cards on %d pages in %s%s\n",
		result.Cards, result.Pages, result.Duration.Round(time.Millisecond), display.Summary())
	if unchanged {
		fmt.Println("Inputs are unchanged since the previous build.")
	}
	fmt.Printf("Open %s to print your deck.\n", result.IndexPath)
	return nil
}
