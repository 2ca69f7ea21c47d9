package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dskvich/doc-reviewer/pkg/domain"
)

func newPromptsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompts",
		Short: "Manage review prompts",
	}
	cmd.AddCommand(
		newPromptsListCmd(c),
		newPromptsCreateCmd(c),
		newPromptsUpdateCmd(c),
		newPromptsSelectCmd(c),
		newPromptsDeleteCmd(c),
		newPromptsImportCmd(c),
	)
	return cmd
}

func newPromptsListCmd(c *cli) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List prompts, live prompt first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m := c.session.prompts
			if err := m.Refresh(cmd.Context()); err != nil {
				return err
			}

			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "\tID\tNAME")
			if live, ok := m.Live(); ok {
				writePrompt(tw, "*", live, verbose)
			}
			for _, p := range m.Alternates() {
				writePrompt(tw, "", p, verbose)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Refreshed at %s\n", m.LastRefresh().Format(time.DateTime))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print prompt texts")
	return cmd
}

func writePrompt(tw *tabwriter.Writer, marker string, p domain.Prompt, verbose bool) {
	fmt.Fprintf(tw, "%s\t%s\t%s\n", marker, p.ID, p.Name)
	if verbose {
		fmt.Fprintf(tw, "\t\tsystem: %s\n", oneLine(p.SystemPrompt))
		fmt.Fprintf(tw, "\t\tuser:   %s\n", oneLine(p.UserPrompt))
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

type promptTextFlags struct {
	system     string
	user       string
	systemFile string
	userFile   string
}

func (f *promptTextFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.system, "system", "", "system prompt text")
	cmd.Flags().StringVar(&f.user, "user", "", "user prompt text")
	cmd.Flags().StringVar(&f.systemFile, "system-file", "", "read the system prompt from a file")
	cmd.Flags().StringVar(&f.userFile, "user-file", "", "read the user prompt from a file")
	cmd.MarkFlagsMutuallyExclusive("system", "system-file")
	cmd.MarkFlagsMutuallyExclusive("user", "user-file")
	cmd.MarkFlagsOneRequired("system", "system-file")
	cmd.MarkFlagsOneRequired("user", "user-file")
}

func (f *promptTextFlags) texts() (string, string, error) {
	system, err := textOrFile(f.system, f.systemFile)
	if err != nil {
		return "", "", err
	}
	user, err := textOrFile(f.user, f.userFile)
	if err != nil {
		return "", "", err
	}
	return system, user, nil
}

func textOrFile(text, file string) (string, error) {
	if file == "" {
		return text, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", file, err)
	}
	return string(data), nil
}

func newPromptsCreateCmd(c *cli) *cobra.Command {
	var (
		name  string
		texts promptTextFlags
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			system, user, err := texts.texts()
			if err != nil {
				return err
			}
			p, err := c.session.prompts.Create(cmd.Context(), name, system, user)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Created prompt %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "prompt name")
	_ = cmd.MarkFlagRequired("name")
	texts.register(cmd)
	return cmd
}

func newPromptsUpdateCmd(c *cli) *cobra.Command {
	var texts promptTextFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace both texts of a prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			system, user, err := texts.texts()
			if err != nil {
				return err
			}

			m := c.session.prompts
			if err := m.Refresh(cmd.Context()); err != nil {
				return err
			}
			p, err := m.Update(cmd.Context(), args[0], system, user)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Updated prompt %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}
	texts.register(cmd)
	return cmd
}

func newPromptsSelectCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "select <id>",
		Short: "Make a prompt the live prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.session.prompts.Select(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Live prompt is now %s\n", args[0])
			return nil
		},
	}
}

func newPromptsDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.session.prompts.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Deleted prompt %s\n", args[0])
			return nil
		},
	}
}

func newPromptsImportCmd(c *cli) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Create a prompt from a YAML file with system_prompt and user_prompt keys",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			if name == "" {
				name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}
			p, err := c.session.prompts.ImportYAML(cmd.Context(), name, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Imported prompt %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "prompt name (default: file name without extension)")
	return cmd
}
