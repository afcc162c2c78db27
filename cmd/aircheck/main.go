package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/airchive/aircheck/internal/config"
	"github.com/airchive/aircheck/internal/httpx"
	"github.com/airchive/aircheck/internal/pipeline"
	"github.com/airchive/aircheck/internal/tool"
)

var version = "dev"

// requiredTools must be on PATH before an export is attempted.
var requiredTools = []string{"ffmpeg", "yt-dlp"}

func main() {
	os.Exit(run())
}

func run() int {
	var (
		outputDir         string
		format            string
		debug             bool
		configPath        string
		keepIntermediates bool
	)

	// Set when the pipeline stops because the run context was
	// cancelled, so the process can report the conventional
	// signal-termination status instead of a plain failure.
	cancelled := false

	root := &cobra.Command{
		Use:           "aircheck <show-page-url>",
		Short:         "Archive a radio show broadcast from its show page URL",
		Long: `aircheck exports a radio show broadcast from its show page URL.

It scrapes the page for the show's metadata and stream manifest,
downloads and loudness-normalizes the audio, and produces either a
tagged audio file or a still-image video with a chapter-annotated
description document. Intermediate artifacts are kept on disk, so an
interrupted export resumes where it left off when re-run.`,
		Args:          cobra.ExactArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := config.DefaultSettings()
			if configPath != "" {
				var err error
				settings, err = config.Load(configPath)
				if err != nil {
					return fmt.Errorf("loading config: %w", err)
				}
			}

			if cmd.Flags().Changed("out") {
				settings.OutputDir = outputDir
			}
			if cmd.Flags().Changed("format") {
				settings.Format = format
			}
			if cmd.Flags().Changed("keep-intermediates") {
				settings.KeepIntermediates = keepIntermediates
			}
			if debug {
				settings.Debug = true
			}
			settings.ApplyEnvOverrides()

			level := zerolog.InfoLevel
			if settings.Debug {
				level = zerolog.DebugLevel
			}
			log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).
				With().Timestamp().Logger()

			if err := tool.CheckDependencies(requiredTools...); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(),
				os.Interrupt, syscall.SIGTERM)
			defer stop()

			p := pipeline.New(httpx.NewClient(), tool.NewExecRunner(log), settings, log)
			art, err := p.Run(ctx, args[0])
			if err != nil {
				if ctx.Err() != nil {
					cancelled = true
					log.Warn().Msg("export cancelled")
				}
				return err
			}

			// The final artifact path is the only stdout output, so
			// scripts can capture it.
			fmt.Println(art.Final())
			return nil
		},
	}

	root.Flags().StringVarP(&outputDir, "out", "o", ".", "output directory for all artifacts")
	root.Flags().StringVarP(&format, "format", "f", "audio", "output format: audio or video")
	root.Flags().BoolVar(&debug, "debug", false, "cap the export at five minutes and log verbosely")
	root.Flags().StringVar(&configPath, "config", "", "path to a settings file")
	root.Flags().BoolVar(&keepIntermediates, "keep-intermediates", true, "keep raw/normalized/cover files after a successful export")

	if err := root.Execute(); err != nil {
		if cancelled {
			return 130
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
