package main

import (
	"errors"
	"fmt"

	"github.com/davesmith10/recolor/internal/codec"
	"github.com/davesmith10/recolor/internal/color"
	"github.com/davesmith10/recolor/internal/pipeline"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recolor --src COLOR --dst COLOR INPUT OUTPUT",
		Short: "Replace every pixel of one exact color with another",
		Long: `Replace every pixel of one exact color with another.

Pixels match only when red, green, blue and alpha are all equal to --src.
Colors are SVG color names (red, steelblue, transparent) or hexadecimal
#RGB, #RRGGBB or #RRGGBBAA values. The output format follows the extension
of OUTPUT: png, jpg/jpeg, gif, bmp or tif/tiff.

An INPUT literally named "identify" selects the identify command; put
-- before the file names to read such a file:

  recolor --src red --dst blue -- identify out.png`,
		Args: cobra.ExactArgs(2),
		RunE: runReplace,
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.Flags().String("src", "", "Color to replace")
	cmd.Flags().String("dst", "", "Replacement color")
	cmd.Flags().Int("quality", codec.DefaultQuality, "JPEG output quality (1-100)")
	cmd.Flags().Int("workers", 1, "Number of row bands to process concurrently")
	cmd.Flags().BoolP("verbose", "v", false, "Log progress to stderr")
	cmd.MarkFlagRequired("src")
	cmd.MarkFlagRequired("dst")
	return silence(cmd)
}

func runReplace(cmd *cobra.Command, args []string) error {
	inputPath, outputPath := args[0], args[1]
	srcText, _ := cmd.Flags().GetString("src")
	dstText, _ := cmd.Flags().GetString("dst")
	quality, _ := cmd.Flags().GetInt("quality")
	workers, _ := cmd.Flags().GetInt("workers")
	verbose, _ := cmd.Flags().GetBool("verbose")

	src, err := color.Parse(srcText)
	if err != nil {
		return fmt.Errorf("--src: %w", err)
	}
	dst, err := color.Parse(dstText)
	if err != nil {
		return fmt.Errorf("--dst: %w", err)
	}
	if quality < 1 || quality > 100 {
		return fmt.Errorf("--quality must be between 1 and 100, got %d", quality)
	}

	log := newLogger(cmd.ErrOrStderr(), verbose)
	result, err := pipeline.Run(pipeline.Options{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Src:        src,
		Dst:        dst,
		Quality:    quality,
		Workers:    workers,
		Logger:     log,
	})

	var loadErr *pipeline.LoadError
	var saveErr *pipeline.SaveError
	switch {
	case errors.As(err, &loadErr):
		log.Debug("load failed", "error", loadErr.Err)
		return &exitError{Code: exitFailure, Message: "Failed to load " + loadErr.Path}
	case errors.As(err, &saveErr):
		log.Debug("save failed", "error", saveErr.Err)
		return &exitError{Code: exitFailure, Message: "Failed to save " + saveErr.Path}
	case err != nil:
		return &exitError{Code: exitFailure, Message: err.Error()}
	}

	log.Info("recolored image",
		"input", inputPath,
		"output", outputPath,
		"width", result.Width,
		"height", result.Height,
		"replaced", result.Replaced)
	return nil
}
