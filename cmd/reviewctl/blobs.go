package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/dskvich/doc-reviewer/pkg/domain"
)

func newBlobsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blobs",
		Short: "List, upload and download blobs",
	}
	cmd.AddCommand(
		newBlobsListCmd(c),
		newBlobsUploadCmd(c),
		newBlobsDownloadCmd(c),
	)
	return cmd
}

func newBlobsListCmd(c *cli) *cobra.Command {
	var container string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List blobs of every configured container",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b := c.session.browser
			if err := b.Refresh(cmd.Context()); err != nil {
				return err
			}

			for _, name := range b.Containers() {
				if container != "" && string(name) != container {
					continue
				}
				items := b.Listing(name)
				fmt.Fprintf(c.out, "%s (%s): %d\n", b.Label(name), name, len(items))
				for _, item := range items {
					fmt.Fprintf(c.out, "  %s\t%s\n", item.Name, item.URL)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&container, "container", "c", "", "only list this container")
	return cmd
}

func newBlobsUploadCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <container> <file>",
		Short: "Upload one file into a container",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[1], err)
			}

			return c.session.browser.Upload(cmd.Context(), domain.ContainerName(args[0]), domain.UploadFile{
				Name:    filepath.Base(args[1]),
				Content: content,
			})
		},
	}
}

func newBlobsDownloadCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "download <container> <blob>...",
		Short: "Download blobs of a container into the download directory",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			container := domain.ContainerName(args[0])
			if err := c.session.browser.Refresh(cmd.Context()); err != nil {
				return err
			}
			for _, name := range args[1:] {
				if err := c.selectBlob(container, name); err != nil {
					return err
				}
			}
			return c.session.browser.DownloadSelected(cmd.Context(), container)
		},
	}
}

// selectBlob selects a blob of the current listing by name.
func (c *cli) selectBlob(container domain.ContainerName, name string) error {
	b := c.session.browser
	if !slices.Contains(b.Containers(), container) {
		return fmt.Errorf("%q: %w (add it to CONTAINERS)", container, domain.ErrUnknownContainer)
	}

	item, ok := lo.Find(b.Listing(container), func(item domain.BlobItem) bool { return item.Name == name })
	if !ok {
		return fmt.Errorf("blob %s in %s: %w", name, container, domain.ErrNotFound)
	}
	if !lo.ContainsBy(b.Selection(), func(s domain.SelectedBlob) bool { return s.Is(container, name) }) {
		b.ToggleSelection(container, item)
	}
	return nil
}

// parseBlobRef splits "container/name". Blob names may contain slashes.
func parseBlobRef(ref string) (domain.ContainerName, string, error) {
	container, name, ok := strings.Cut(ref, "/")
	if !ok || container == "" || name == "" {
		return "", "", fmt.Errorf("blob reference %q must look like container/name", ref)
	}
	return domain.ContainerName(container), name, nil
}
