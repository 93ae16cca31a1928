package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/amishk599/prepkit/internal/model"
	"github.com/amishk599/prepkit/internal/prep"
	"github.com/amishk599/prepkit/internal/session"
	"github.com/amishk599/prepkit/internal/tui"
)

const (
	choiceType   = "Type an answer"
	choiceRecord = "Record an answer"
	choiceEnd    = "End interview"
)

var difficulties = []string{"Junior", "Mid", "Senior"}

var (
	ivRole       string
	ivIndustry   string
	ivDifficulty string
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run a mock interview in line mode",
	Long:  "Runs a mock interview with plain prompts instead of the full-screen interface.\nMissing setup values are asked for interactively.",
	RunE:  runInterview,
}

func init() {
	interviewCmd.Flags().StringVar(&ivRole, "role", "", "role to interview for")
	interviewCmd.Flags().StringVar(&ivIndustry, "industry", "", "industry of the role")
	interviewCmd.Flags().StringVar(&ivDifficulty, "difficulty", "", "Junior, Mid or Senior")
	rootCmd.AddCommand(interviewCmd)
}

func notBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func askText(label, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	p := promptui.Prompt{Label: label, Validate: notBlank}
	return p.Run()
}

func askDifficulty(value string) (string, error) {
	if value != "" {
		return value, nil
	}
	s := promptui.Select{Label: "Difficulty", Items: difficulties}
	_, v, err := s.Run()
	return v, err
}

func runInterview(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	e, err := setup(ctx, false)
	if err != nil {
		return err
	}
	defer e.close()

	role, err := askText("Role", ivRole)
	if err != nil {
		return promptErr(err)
	}
	industry, err := askText("Industry", ivIndustry)
	if err != nil {
		return promptErr(err)
	}
	difficulty, err := askDifficulty(ivDifficulty)
	if err != nil {
		return promptErr(err)
	}

	err = tui.RunLoader(ctx, "Generating your first question...", func(ctx context.Context) error {
		return e.ctrl.StartInterview(ctx, role, industry, difficulty)
	})
	if err != nil {
		return err
	}
	if e.ctrl.Snapshot().TextOnly {
		fmt.Println("Microphone unavailable, answers will be typed.")
	}

	if err := answerLoop(ctx, e.ctrl); err != nil {
		return err
	}
	return finishInterview(ctx, e.ctrl)
}

// answerLoop asks each sub-question until the parts run out or the user
// ends the interview. Failed submissions are reported and the same question
// is asked again.
func answerLoop(ctx context.Context, ctrl *prep.Controller) error {
	for {
		snap := ctrl.Snapshot()
		if snap.Session.State != session.InProgress {
			fmt.Print(tui.QuestionText(snap.Session, lineWidth))
			return nil
		}
		fmt.Println()
		fmt.Print(tui.QuestionText(snap.Session, lineWidth))

		items := []string{choiceType}
		if !snap.TextOnly {
			items = append(items, choiceRecord)
		}
		items = append(items, choiceEnd)
		sel := promptui.Select{Label: "Answer", Items: items}
		_, choice, err := sel.Run()
		if err != nil {
			return promptErr(err)
		}

		var text string
		switch choice {
		case choiceEnd:
			return nil
		case choiceType:
			// a recording kept from a failed transcription would win over the text
			ctrl.DiscardRecording()
			p := promptui.Prompt{Label: "Your answer", Validate: notBlank}
			if text, err = p.Run(); err != nil {
				return promptErr(err)
			}
		case choiceRecord:
			if err := record(ctrl); err != nil {
				fmt.Println(tui.ErrorText(err, lineWidth))
				continue
			}
		}

		var ev model.Evaluation
		err = tui.RunLoader(ctx, "Evaluating your answer...", func(ctx context.Context) error {
			var err error
			ev, err = ctrl.SubmitAnswer(ctx, text)
			return err
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Println(tui.ErrorText(err, lineWidth))
			continue
		}
		fmt.Println()
		fmt.Println(tui.FeedbackText(ev.Exchange, lineWidth))
	}
}

// record captures one answer; enter stops the recording.
func record(ctrl *prep.Controller) error {
	if err := ctrl.ToggleRecording(); err != nil {
		return err
	}
	p := promptui.Prompt{Label: "Recording, press enter to stop", AllowEdit: false}
	_, perr := p.Run()
	if err := ctrl.ToggleRecording(); err != nil {
		return err
	}
	return promptErr(perr)
}

func finishInterview(ctx context.Context, ctrl *prep.Controller) error {
	var sum model.Summary
	err := tui.RunLoader(ctx, "Summarizing your interview...", func(ctx context.Context) error {
		var err error
		sum, err = ctrl.EndInterview(ctx)
		return err
	})
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Print(tui.SummaryText(sum, lineWidth))
	ctrl.CloseSummary()
	return nil
}

// promptErr turns ctrl+c at a prompt into a quiet exit.
func promptErr(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return errInterrupted
	}
	return err
}

var errInterrupted = errors.New("interrupted")
