package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/prepkit/internal/model"
	"github.com/amishk599/prepkit/internal/tui"
)

var (
	jobDescription     string
	jobDescriptionFile string
	saveResume         bool
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize RESUME",
	Short: "Optimize a resume for a job description",
	Long:  "Sends RESUME (.pdf, .docx, .doc or .txt) and a job description to the optimizer\nand prints the result. Use --job-description-file - to read the description from stdin.",
	Args:  cobra.ExactArgs(1),
	RunE:  runOptimize,
}

func init() {
	optimizeCmd.Flags().StringVarP(&jobDescription, "job-description", "j", "", "job description text")
	optimizeCmd.Flags().StringVarP(&jobDescriptionFile, "job-description-file", "f", "", "read the job description from a file (- for stdin)")
	optimizeCmd.Flags().BoolVarP(&saveResume, "save", "s", false, "save the optimized resume to the download directory")
	optimizeCmd.MarkFlagsMutuallyExclusive("job-description", "job-description-file")
	rootCmd.AddCommand(optimizeCmd)
}

func readJobDescription(in io.Reader) (string, error) {
	switch jobDescriptionFile {
	case "":
		return jobDescription, nil
	case "-":
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("read job description: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(jobDescriptionFile)
		if err != nil {
			return "", fmt.Errorf("read job description: %w", err)
		}
		return string(data), nil
	}
}

func runOptimize(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	jd, err := readJobDescription(cmd.InOrStdin())
	if err != nil {
		return err
	}

	e, err := setup(ctx, false)
	if err != nil {
		return err
	}
	defer e.close()

	f, err := e.ctrl.SelectResume(args[0])
	if err != nil {
		return err
	}

	var res model.OptimizeResult
	err = tui.RunLoader(ctx, "Optimizing "+f.Name+"...", func(ctx context.Context) error {
		var err error
		res, err = e.ctrl.OptimizeResume(ctx, jd)
		return err
	})
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), tui.OptimizedText(res, lineWidth))

	if saveResume {
		path, err := e.ctrl.DownloadResume()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
	}
	return nil
}
