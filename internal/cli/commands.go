package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/jo-hoe/imgup/internal/apiclient"
	"github.com/spf13/cobra"
)

func newUploadCommand(opts *options, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "upload [FILE...]",
		Short: "Upload images and list the recent ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			files := make([]apiclient.File, 0, len(args))
			var opened []*os.File
			defer func() {
				for _, f := range opened {
					if err := f.Close(); err != nil {
						slog.Warn("upload: failed to close file", "file", f.Name(), "error", err)
					}
				}
			}()
			for _, path := range args {
				file, f, err := apiclient.OpenFile(path)
				if err != nil {
					return err
				}
				opened = append(opened, f)
				files = append(files, file)
			}

			coreService, page, err := opts.newSession(out, files)
			if err != nil {
				return err
			}
			return coreService.UI(page).Uploader.Upload(cmd.Context())
		},
	}
}

func newRecentCommand(opts *options, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "List the most recent images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			coreService, page, err := opts.newSession(out, nil)
			if err != nil {
				return err
			}
			return coreService.UI(page).Recent.Load(cmd.Context())
		},
	}
}

func newDetailCommand(opts *options, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "detail ID",
		Short: "Show captions and tags of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coreService, page, err := opts.newSession(out, nil)
			if err != nil {
				return err
			}
			return coreService.UI(page).Detail.Load(cmd.Context(), args[0])
		},
	}
}
