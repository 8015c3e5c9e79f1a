package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/medtamil/internal/archive"
	"codeberg.org/snonux/medtamil/internal/cli"
	"codeberg.org/snonux/medtamil/internal/models"
	"codeberg.org/snonux/medtamil/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
		if err := cli.SetupLogging(viper.GetString("log.level"), viper.GetString("log.format")); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	ctx := cmd.Context()

	// Handle --archive flag
	if flags.Archive {
		archived, err := archive.ArchiveOutput(viper.GetString("output.directory"))
		if err != nil {
			return fmt.Errorf("failed to archive audio files: %w", err)
		}
		fmt.Printf("Archived audio files to %s\n", archived)
		return nil
	}

	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(cli.GetOpenAIKey())
		return lister.ListAvailableModels(ctx, os.Stdout)
	}

	// Create processor
	proc, err := processor.NewProcessor(ctx, flags)
	if err != nil {
		return err
	}

	switch {
	case flags.ExportDeck != "":
		if _, err := proc.ExportDeck(ctx, flags.ExportDeck, flags.DeckName, flags.DeckAudio && !flags.SkipAudio); err != nil {
			return err
		}
	case flags.BatchFile != "":
		summary, err := proc.ProcessBatch(ctx, flags.BatchFile)
		if err != nil {
			return err
		}
		if summary.Failed > 0 {
			return fmt.Errorf("%d of %d instructions failed to translate", summary.Failed, summary.Total)
		}
	case flags.AudioInput != "":
		if _, err := proc.ProcessAudioFile(ctx, flags.AudioInput); err != nil && !errors.Is(err, processor.ErrEmptyInput) {
			return err
		}
	case len(args) > 0:
		// Unquoted sentences arrive as separate words
		if _, err := proc.ProcessText(ctx, strings.Join(args, " ")); err != nil && !errors.Is(err, processor.ErrEmptyInput) {
			return err
		}
	default:
		// No input provided - start an interactive session
		if err := proc.RunInteractive(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}

	return nil
}
