package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amishk599/prepkit/internal/model"
	"github.com/amishk599/prepkit/internal/tui"
)

var researchJSON bool

var researchCmd = &cobra.Command{
	Use:   "research COMPANY ROLE",
	Short: "Research a company and role",
	Long:  "Looks up company facts, news, skills and salary for a role. When the\nresearch service fails, sample data is shown and labeled as such.",
	Args:  cobra.ExactArgs(2),
	RunE:  runResearch,
}

func init() {
	researchCmd.Flags().BoolVar(&researchJSON, "json", false, "print the raw response instead of the rendered view")
	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	e, err := setup(ctx, false)
	if err != nil {
		return err
	}
	defer e.close()

	var res model.ResearchResult
	err = tui.RunLoader(ctx, "Researching "+args[0]+"...", func(ctx context.Context) error {
		var err error
		res, err = e.ctrl.Research(ctx, args[0], args[1])
		return err
	})
	if err != nil {
		return err
	}

	if researchJSON {
		var out bytes.Buffer
		if err := json.Indent(&out, res.Raw, "", "  "); err != nil {
			return fmt.Errorf("format research response: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), out.String())
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), tui.ResearchText(res, lineWidth))
	return nil
}
