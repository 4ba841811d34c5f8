package cmd

import (
	"context"
	"os"
	"strings"

	v1 "github.com/emrgen/modelhub/apis/v1"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "publish workflow commands",
}

func init() {
	rootCmd.AddCommand(publishCmd)
	publishCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	publishCmd.AddCommand(runPublishCmd())
	publishCmd.AddCommand(startPublishCmd())
	publishCmd.AddCommand(attemptStepCmd("workflow", "choose the review workflow"))
	publishCmd.AddCommand(attemptStepCmd("reviewers", "choose the reviewers"))
	publishCmd.AddCommand(attemptStepCmd("check", "run the automated check"))
	publishCmd.AddCommand(attemptStepCmd("confirm", "submit the model for review"))
	publishCmd.AddCommand(attemptStepCmd("back", "return to the previous stage"))
	publishCmd.AddCommand(attemptStepCmd("cancel", "abandon the attempt"))
	publishCmd.AddCommand(attemptStepCmd("status", "show the attempt"))
	publishCmd.AddCommand(decideCmd())
	publishCmd.AddCommand(catalogCmd())
}

// runPublishCmd drives an attempt from start to confirmation in one go.
func runPublishCmd() *cobra.Command {
	var modelID string
	var workflowID string
	var reviewers []string
	var notes string
	var confirm bool

	var required = []string{"model-id", "workflow", "reviewer"}

	command := &cobra.Command{
		Use:     "run",
		Short:   "run the publish workflow for a personal model",
		Example: "modelhub publish run -m <model-id> -w standard -r rev-001,rev-004 --confirm",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client, err := dial()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			ctx, cancel := requestContext()
			defer cancel()

			res, err := client.StartPublish(ctx, &v1.StartPublishRequest{ModelId: modelID})
			if err != nil {
				logrus.Error(err)
				return
			}
			attemptID := res.Attempt.Id
			color.Cyan("attempt %s started", attemptID)

			steps := []func(context.Context) (*v1.PublishAttemptResponse, error){
				func(ctx context.Context) (*v1.PublishAttemptResponse, error) {
					return client.ChooseWorkflow(ctx, &v1.ChooseWorkflowRequest{AttemptId: attemptID, WorkflowId: workflowID})
				},
				func(ctx context.Context) (*v1.PublishAttemptResponse, error) {
					return client.ChooseReviewers(ctx, &v1.ChooseReviewersRequest{AttemptId: attemptID, ReviewerIds: reviewers, Notes: notes})
				},
				func(ctx context.Context) (*v1.PublishAttemptResponse, error) {
					return client.RunCheck(ctx, &v1.RunCheckRequest{AttemptId: attemptID})
				},
			}
			if confirm {
				steps = append(steps, func(ctx context.Context) (*v1.PublishAttemptResponse, error) {
					return client.ConfirmPublish(ctx, &v1.ConfirmPublishRequest{AttemptId: attemptID})
				})
			}

			for _, step := range steps {
				res, err = step(ctx)
				if err != nil {
					logrus.Error(err)
					if current, err := client.GetAttempt(ctx, &v1.GetAttemptRequest{AttemptId: attemptID}); err == nil {
						printAttempt(current.Attempt)
					}
					return
				}
			}

			printAttempt(res.Attempt)
			if !confirm {
				color.Yellow("review the check and run: modelhub publish confirm -a %s", attemptID)
			}
		},
	}

	command.Flags().StringVarP(&modelID, "model-id", "m", "", "personal model id (required)")
	command.Flags().StringVarP(&workflowID, "workflow", "w", "", "review workflow id (required)")
	command.Flags().StringSliceVarP(&reviewers, "reviewer", "r", nil, "reviewer ids (required)")
	command.Flags().StringVarP(&notes, "notes", "n", "", "notes for the reviewers")
	command.Flags().BoolVar(&confirm, "confirm", false, "confirm after a passing check")
	command.Flags().SortFlags = false

	return command
}

func startPublishCmd() *cobra.Command {
	var modelID string

	var required = []string{"model-id"}

	command := &cobra.Command{
		Use:   "start",
		Short: "start a publish attempt",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client, err := dial()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			ctx, cancel := requestContext()
			defer cancel()
			res, err := client.StartPublish(ctx, &v1.StartPublishRequest{ModelId: modelID})
			if err != nil {
				logrus.Error(err)
				return
			}

			printAttempt(res.Attempt)
		},
	}

	command.Flags().StringVarP(&modelID, "model-id", "m", "", "personal model id (required)")

	return command
}

// attemptStepCmd builds the commands that act on one attempt.
func attemptStepCmd(use, short string) *cobra.Command {
	var attemptID string
	var workflowID string
	var reviewers []string
	var notes string

	var required = []string{"attempt-id"}
	switch use {
	case "workflow":
		required = append(required, "workflow")
	case "reviewers":
		required = append(required, "reviewer")
	}

	command := &cobra.Command{
		Use:   use,
		Short: short,
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client, err := dial()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			ctx, cancel := requestContext()
			defer cancel()

			var res *v1.PublishAttemptResponse
			switch use {
			case "workflow":
				res, err = client.ChooseWorkflow(ctx, &v1.ChooseWorkflowRequest{AttemptId: attemptID, WorkflowId: workflowID})
			case "reviewers":
				res, err = client.ChooseReviewers(ctx, &v1.ChooseReviewersRequest{AttemptId: attemptID, ReviewerIds: reviewers, Notes: notes})
			case "check":
				res, err = client.RunCheck(ctx, &v1.RunCheckRequest{AttemptId: attemptID})
			case "confirm":
				res, err = client.ConfirmPublish(ctx, &v1.ConfirmPublishRequest{AttemptId: attemptID})
			case "back":
				res, err = client.GoBack(ctx, &v1.GoBackRequest{AttemptId: attemptID})
			case "cancel":
				res, err = client.CancelPublish(ctx, &v1.CancelPublishRequest{AttemptId: attemptID})
			default:
				res, err = client.GetAttempt(ctx, &v1.GetAttemptRequest{AttemptId: attemptID})
			}
			if err != nil {
				logrus.Error(err)
				return
			}

			printAttempt(res.Attempt)
			if res.Model != nil {
				printField("Model status", res.Model.Status)
			}
		},
	}

	command.Flags().StringVarP(&attemptID, "attempt-id", "a", "", "publish attempt id (required)")
	switch use {
	case "workflow":
		command.Flags().StringVarP(&workflowID, "workflow", "w", "", "review workflow id (required)")
	case "reviewers":
		command.Flags().StringSliceVarP(&reviewers, "reviewer", "r", nil, "reviewer ids (required)")
		command.Flags().StringVarP(&notes, "notes", "n", "", "notes for the reviewers")
	}
	command.Flags().SortFlags = false

	return command
}

func decideCmd() *cobra.Command {
	var attemptID string
	var approve bool
	var reject bool

	var required = []string{"attempt-id"}

	command := &cobra.Command{
		Use:   "decide",
		Short: "record the review decision of a submitted attempt",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}
			if approve == reject {
				color.Red("missing: exactly one of --approve or --reject")
				return
			}

			decision := v1.DecisionReject
			if approve {
				decision = v1.DecisionApprove
			}

			client, err := dial()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			ctx, cancel := requestContext()
			defer cancel()
			res, err := client.ReviewDecision(ctx, &v1.ReviewDecisionRequest{AttemptId: attemptID, Decision: decision})
			if err != nil {
				logrus.Error(err)
				return
			}

			printAttempt(res.Attempt)
			printField("Model status", res.Model.Status)
		},
	}

	command.Flags().StringVarP(&attemptID, "attempt-id", "a", "", "publish attempt id (required)")
	command.Flags().BoolVar(&approve, "approve", false, "publish the model")
	command.Flags().BoolVar(&reject, "reject", false, "return the model to draft")
	command.Flags().SortFlags = false

	return command
}

func catalogCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "catalog",
		Short: "list review workflows and reviewers",
		Run: func(cmd *cobra.Command, args []string) {
			client, err := dial()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			ctx, cancel := requestContext()
			defer cancel()
			workflows, err := client.ListWorkflows(ctx, &v1.ListWorkflowsRequest{})
			if err != nil {
				logrus.Error(err)
				return
			}
			reviewers, err := client.ListReviewers(ctx, &v1.ListReviewersRequest{})
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Workflow", "Name", "Stages"})
			for _, w := range workflows.Workflows {
				stages := make([]string, 0, len(w.Stages))
				for _, s := range w.Stages {
					stages = append(stages, s.Name+" ("+s.ExpectedDuration+")")
				}
				table.Append([]string{w.Id, w.Name, strings.Join(stages, " > ")})
			}
			table.Render()

			table = tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Reviewer", "Name", "Role", "Expertise"})
			for _, r := range reviewers.Reviewers {
				table.Append([]string{r.Id, r.Name, r.Role, strings.Join(r.Expertise, ", ")})
			}
			table.Render()
		},
	}

	return command
}
