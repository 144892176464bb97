package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	imageaugmenter "github.com/menta2k/image-augmenter"
	"github.com/menta2k/image-augmenter/internal/config"
)

func main() {
	defer klog.Flush()

	if err := fang.Execute(
		context.Background(),
		newRootCmd(),
		fang.WithVersion(imageaugmenter.Version),
	); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "image-augmenter <notation-file> <image-dir> <target-dir>",
		Short: "Expand a labeled detection dataset with blurred, mirrored and split variants",
		Long: `image-augmenter reads a line-delimited JSON notation file, writes fourteen
derived images for every source image into the target directory and saves a
new notation file (nlabel.idl) whose boxes match each derived image.`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.LoadFromFile(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			aug, err := imageaugmenter.New(args[0], args[1], args[2], cfg)
			if err != nil {
				klog.Errorf("%v", err)
				return err
			}
			if !quiet {
				aug.SetProgressOutput(cmd.ErrOrStderr())
			}

			summary, err := aug.Run()
			if err != nil {
				klog.Errorf("%v", err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d source images (%d skipped) -> %d images, notation %s\n",
				summary.SourceImages, summary.SkippedImages, summary.DerivedImages, summary.NotationPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "optional YAML configuration file")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "disable the progress bar")

	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	cmd.Flags().AddGoFlagSet(klogFlags)

	return cmd
}
