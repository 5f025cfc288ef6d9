// Command imgkit converts images and applies filters from the command line.
//
// Usage:
//
//	imgkit convert in.jpg out.png --grayscale --blur 2 --resize 640x480
//	imgkit info out.png
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/imgkit"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "imgkit:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "imgkit",
		Short:         "Decode, filter and encode images",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			imgkit.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log decoder and filter diagnostics")

	root.AddCommand(newConvertCommand())
	root.AddCommand(newInfoCommand())
	return root
}
