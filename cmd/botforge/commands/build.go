package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hardikramesh/botforge/internal/adapters/builder"
	"github.com/hardikramesh/botforge/internal/core/domain"
	"github.com/hardikramesh/botforge/internal/core/ports"
)

func buildCmd() *cobra.Command {
	var (
		image     string
		baseImage string
		variant   string
		port      int
	)

	cmd := &cobra.Command{
		Use:   "build <dir|repo-url>",
		Short: "Build a bot image from a local directory or git repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			builderAdapter, err := builder.NewAdapter(log, cfg.Build.TempDir)
			if err != nil {
				return err
			}

			req := ports.BuildRequest{
				ImageName: image,
				Spec: domain.ImageSpec{
					BaseImage:   cfg.Build.BaseImage,
					WorkDir:     cfg.Build.WorkDir,
					Manifest:    cfg.Build.Manifest,
					EntryScript: cfg.Build.EntryScript,
					Variant:     domain.Variant(cfg.Build.Variant),
					Port:        cfg.Build.AppPort,
				},
			}
			if isRepoURL(args[0]) {
				req.RepoURL = args[0]
			} else {
				req.SourceDir = args[0]
			}
			if baseImage != "" {
				req.Spec.BaseImage = baseImage
			}
			if variant != "" {
				req.Spec.Variant = domain.Variant(variant)
			}
			if port > 0 {
				req.Spec.Port = port
			}
			if !req.Spec.Variant.Valid() {
				return fmt.Errorf("variant must be auto, toolchain or lean, got %q", req.Spec.Variant)
			}

			build, err := builderAdapter.BuildImage(cmd.Context(), req)
			if err != nil {
				return err
			}

			if build.Cached {
				fmt.Printf("%s (up to date)\n", build.ImageRef)
			} else {
				fmt.Println(build.ImageRef)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&image, "image", "i", "", "image name (default derived from the source)")
	cmd.Flags().StringVar(&baseImage, "base-image", "", "base image override")
	cmd.Flags().StringVar(&variant, "variant", "", "build variant: auto, toolchain or lean")
	cmd.Flags().IntVar(&port, "port", 0, "port the bot listens on")
	return cmd
}

func isRepoURL(s string) bool {
	return strings.Contains(s, "://") || strings.HasPrefix(s, "git@")
}
