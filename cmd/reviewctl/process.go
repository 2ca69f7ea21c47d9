package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dskvich/doc-reviewer/pkg/domain"
	"github.com/dskvich/doc-reviewer/pkg/period"
)

var errConfirmationRequired = errors.New("derived dates need confirmation: pass --accept to keep them or --edit to change them")

type periodFlags struct {
	endCurrent   string
	startCurrent string
	endPrior     string
	startPrior   string
	openPrior    string
	accept       bool
	edit         bool
}

func newProcessCmd(c *cli) *cobra.Command {
	var (
		refs []string
		pf   periodFlags
	)

	cmd := &cobra.Command{
		Use:   "process <pipeline>",
		Short: "Run a processing pipeline over selected blobs",
		Long: `Run a processing pipeline over selected blobs.

Pipelines: extract (processUploads, bronze container) and aoai (callAoai,
silver container). The default CONTAINERS list is silver,gold, so extract
only works once bronze is added, e.g. CONTAINERS=bronze,silver,gold.

An end date of 31 December or 31 March fills in the other period dates;
confirm them with --accept or unlock them with --edit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := c.session
			if err := s.browser.Refresh(cmd.Context()); err != nil {
				return err
			}

			for _, ref := range refs {
				container, name, err := parseBlobRef(ref)
				if err != nil {
					return err
				}
				if err := c.selectBlob(container, name); err != nil {
					return err
				}
			}

			if err := c.applyPeriod(cmd, pf); err != nil {
				return err
			}

			_, err := s.invoker.Invoke(cmd.Context(), args[0])
			return err
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&refs, "select", "s", nil, "blob to process as container/name (repeatable)")
	f.StringVar(&pf.endCurrent, "end-date", "", "end date of the current period (YYYY-MM-DD)")
	f.StringVar(&pf.startCurrent, "start-date", "", "start date of the current period")
	f.StringVar(&pf.endPrior, "end-date-prior", "", "end date of the prior period")
	f.StringVar(&pf.startPrior, "start-date-prior", "", "start date of the prior period")
	f.StringVar(&pf.openPrior, "opening-date-prior", "", "opening date of the prior period")
	f.BoolVar(&pf.accept, "accept", false, "keep the derived dates")
	f.BoolVar(&pf.edit, "edit", false, "unlock the derived dates for manual changes")
	cmd.MarkFlagsMutuallyExclusive("accept", "edit")

	return cmd
}

// applyPeriod drives the period form the way a user would: end date first,
// then the confirmation, then manual edits.
func (c *cli) applyPeriod(cmd *cobra.Command, pf periodFlags) error {
	sel := c.session.selector

	if pf.endCurrent != "" {
		d := sel.SetEndDateCurrent(pf.endCurrent)
		if d.NeedsConfirmation {
			fmt.Fprintln(c.out, describeDerivation(d))
			switch {
			case pf.accept:
				if err := sel.Accept(); err != nil {
					return err
				}
			case pf.edit:
				if err := sel.Edit(); err != nil {
					return err
				}
			default:
				return errConfirmationRequired
			}
		}
	}

	setters := []struct {
		flag string
		set  func(string) error
		val  string
	}{
		{"start-date", sel.SetStartDateCurrent, pf.startCurrent},
		{"end-date-prior", sel.SetEndDatePrior, pf.endPrior},
		{"start-date-prior", sel.SetStartDatePrior, pf.startPrior},
		{"opening-date-prior", sel.SetOpeningDatePrior, pf.openPrior},
	}
	for _, s := range setters {
		if !cmd.Flags().Changed(s.flag) {
			continue
		}
		if err := s.set(s.val); err != nil {
			if errors.Is(err, domain.ErrFieldsLocked) {
				return fmt.Errorf("--%s: %w (use --edit)", s.flag, err)
			}
			return err
		}
	}
	return nil
}

func describeDerivation(d period.Derivation) string {
	kind := "calendar year"
	if d.Pattern == period.PatternFiscalMarch {
		kind = "fiscal year ending March"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Dates derived for %s:\n", kind)
	fmt.Fprintf(&b, "  current  %s .. %s\n", d.Dates.DurationCurrent.Start, d.Dates.DurationCurrent.End)
	fmt.Fprintf(&b, "  prior    %s .. %s\n", d.Dates.DurationPrior.Start, d.Dates.DurationPrior.End)
	fmt.Fprintf(&b, "  opening  %s", d.Dates.OpeningDatePrior)
	return b.String()
}
