package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/prepkit/internal/segment"
)

var splitCmd = &cobra.Command{
	Use:   "split [QUESTION]",
	Short: "Split a compound interview question into sub-questions",
	Long:  "Prints the sub-questions an interview would ask one at a time. Reads stdin\nwhen no question is given.",
	RunE:  runSplit,
}

func init() {
	rootCmd.AddCommand(splitCmd)
}

func runSplit(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read question: %w", err)
		}
		question = string(data)
	}

	parts := segment.Split(question)
	if len(parts) == 0 {
		return fmt.Errorf("no question available")
	}
	for i, p := range parts {
		fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, segment.Clean(p))
	}
	return nil
}
