package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/imgkit/codec"
	"github.com/gogpu/imgkit/png"
)

func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Describe an image",
		Long:  "Info prints the size of an image. For PNG files it also lists the header fields, chunks and text properties.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd.OutOrStdout(), args[0])
		},
	}
}

func runInfo(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	d, err := codec.Default().DecoderForStream(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if _, ok := d.(*png.Decoder); ok {
		s, err := png.NewDecoder().Read(f)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		printStream(w, path, s)
		return nil
	}

	img, err := d.Decode(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	fmt.Fprintf(w, "%s: %dx%d\n", path, img.Width, img.Height)
	return nil
}

func printStream(w io.Writer, path string, s *png.Stream) {
	h := s.Header
	fmt.Fprintf(w, "%s: %dx%d\n", path, h.Width, h.Height)
	fmt.Fprintf(w, "  color type: %s\n", h.ColorType)
	fmt.Fprintf(w, "  bit depth:  %d\n", h.BitDepth)
	if h.InterlaceMethod != 0 {
		fmt.Fprintln(w, "  interlaced: adam7")
	}
	if s.Palette != nil {
		fmt.Fprintf(w, "  palette:    %d entries\n", s.Palette.Len())
	}
	if s.Physical != nil {
		fmt.Fprintf(w, "  aspect:     %.4g\n", s.Physical.AspectRatio())
	}

	names := make([]string, len(s.Chunks))
	for i, c := range s.Chunks {
		names[i] = c.String()
	}
	fmt.Fprintf(w, "  chunks:     %s\n", strings.Join(names, " "))

	for _, p := range s.Properties {
		fmt.Fprintf(w, "  %s %s=%q\n", p.Type, p.Key, p.Value)
	}
}
