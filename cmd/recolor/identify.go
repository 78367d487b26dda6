package main

import (
	"fmt"
	imgcolor "image/color"
	"os"

	"github.com/davesmith10/recolor/internal/codec"
	"github.com/davesmith10/recolor/internal/color"
	"github.com/davesmith10/recolor/internal/icc"
	"github.com/spf13/cobra"
)

func newIdentifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identify [file]",
		Short: "Inspect image dimensions, colors and embedded ICC profile",
		Args:  cobra.ExactArgs(1),
		RunE:  runIdentify,
	}
	cmd.Flags().String("color", "", "Also count pixels exactly equal to this color")
	return silence(cmd)
}

func runIdentify(cmd *cobra.Command, args []string) error {
	path := args[0]
	colorText, _ := cmd.Flags().GetString("color")

	var probe *imgcolor.NRGBA
	if colorText != "" {
		c, err := color.Parse(colorText)
		if err != nil {
			return fmt.Errorf("--color: %w", err)
		}
		probe = &c
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return &exitError{Code: exitFailure, Message: "Failed to load " + path}
	}
	decoded, err := codec.Decode(data)
	if err != nil {
		return &exitError{Code: exitFailure, Message: "Failed to load " + path}
	}
	buf := decoded.Buffer

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File:        %s\n", path)
	fmt.Fprintf(out, "Format:      %s\n", decoded.Format)
	fmt.Fprintf(out, "Dimensions:  %d x %d\n", buf.Width(), buf.Height())
	fmt.Fprintf(out, "Color model: %s\n", decoded.ColorModel)
	fmt.Fprintf(out, "File size:   %d bytes (%.1f KB)\n", len(data), float64(len(data))/1024)
	fmt.Fprintf(out, "Colors:      %d distinct\n", color.Distinct(buf))
	if probe != nil {
		fmt.Fprintf(out, "Matching:    %d pixels equal to %s\n", color.Count(buf, *probe), color.Format(*probe))
	}

	switch {
	case decoded.ICCError != nil:
		fmt.Fprintf(out, "ICC profile: unreadable: %v\n", decoded.ICCError)
	case decoded.ICC == nil:
		fmt.Fprintln(out, "ICC profile: none")
	default:
		hdr, err := icc.ReadHeader(decoded.ICC)
		if err != nil {
			fmt.Fprintf(out, "ICC profile: present (%d bytes) but invalid: %v\n", len(decoded.ICC), err)
			break
		}
		fmt.Fprintf(out, "ICC profile: %s (%d bytes)\n", hdr.Describe(), len(decoded.ICC))
		if decoded.ICCName != "" {
			fmt.Fprintf(out, "  Name:      %s\n", decoded.ICCName)
		}
	}

	return nil
}
