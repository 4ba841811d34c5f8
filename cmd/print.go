package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Masterminds/semver"
	v1 "github.com/emrgen/modelhub/apis/v1"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func printField(label, value string) {
	color.Set(color.FgCyan)
	fmt.Print(label)
	color.Unset()
	fmt.Printf(": %s\n", value)
}

func printModels(models []*v1.Model) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Name", "Version", "Type", "Status", "Public", "Mirror of"})
	for _, m := range models {
		table.Append([]string{m.Id, m.Name, m.Version, m.Type, m.Status, strconv.FormatBool(m.IsPublic), m.OriginId})
	}
	table.Render()
}

func printModel(m *v1.Model) {
	printModels([]*v1.Model{m})
	printField("Library", m.Library)
	printField("Description", m.Description)
	printField("Tags", strings.Join(m.Tags, ", "))
	printField("RFLP", m.RflpCategory)
	printField("Upstream", strings.Join(m.Dependencies.Upstream, ", "))
	printField("Downstream", strings.Join(m.Dependencies.Downstream, ", "))
	printField("Uploaded", m.UploadTime.Format("2006-01-02 15:04")+" by "+m.Uploader)

	if len(m.ProjectApplications) == 0 {
		return
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Project", "Uses", "Status", "Team", "Last used"})
	for _, app := range m.ProjectApplications {
		table.Append([]string{app.ProjectName, strconv.Itoa(app.UseCount), app.Status, app.Team, app.LastUsedDate})
	}
	table.Render()
}

func printAttempt(a *v1.PublishAttempt) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Attempt", "Model", "Stage", "Progress", "Workflow", "Reviewers", "Outcome"})
	table.Append([]string{a.Id, a.ModelId, a.Stage, strconv.Itoa(a.Progress) + "%", a.WorkflowId, strings.Join(a.ReviewerIds, ","), a.Outcome})
	table.Render()

	if a.Check == nil {
		return
	}
	printCheck(a.Check)
}

func printCheck(check *v1.CheckResult) {
	for _, item := range check.Items {
		if item.Passed {
			color.Green("  ✓ %s (%d)", item.Name, item.Score)
		} else {
			color.Red("  ✗ %s: %s", item.Name, item.Message)
		}
	}
	if check.Passed {
		color.Green("score: %d", check.Score)
	} else {
		color.Red("score: %d", check.Score)
	}
}

func printStats(name string, stats v1.ProjectStats) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Project", "Models", "Uses", "Status", "Team", "Last used"})
	table.Append([]string{name, strconv.Itoa(stats.ModelCount), strconv.Itoa(stats.TotalUseCount), stats.Status, stats.Team, stats.LastUsedDate})
	table.Render()
}

// checkMissingFlags checks if the required flags are set and returns ok if they are set
func checkMissingFlags(cmd *cobra.Command, flags []string) bool {
	var missingFlags []string
	var providedFlags []string
	for _, required := range flags {
		if !cmd.Flag(required).Changed {
			missingFlags = append(missingFlags, required)
		} else {
			value := cmd.Flag(required).Value.String()
			providedFlags = append(providedFlags, fmt.Sprintf("--%s=%s", required, value))
		}
	}

	if len(missingFlags) > 0 {
		var msg string
		for _, f := range missingFlags {
			msg += fmt.Sprintf("--%s ", f)
		}

		color.Red("missing: %s\n", msg)
		if len(providedFlags) > 0 {
			provided := strings.Join(providedFlags, " ")
			color.Green("provide: %s\n", provided)
		}

		cmd.Println("")

		_ = cmd.Usage()

		return true
	}

	return false
}

func checkValidSemvar(ver string) bool {
	_, err := semver.NewVersion(ver)
	return err == nil
}

// parseApplications reads project usage given as project:uses[:team[:status]].
func parseApplications(values []string) ([]v1.ProjectApplication, error) {
	apps := make([]v1.ProjectApplication, 0, len(values))
	for i, value := range values {
		tokens := strings.Split(value, ":")
		if len(tokens) < 2 || tokens[0] == "" {
			return nil, fmt.Errorf("invalid application %q, expected format: <project>:<uses>[:<team>[:<status>]]", value)
		}
		uses, err := strconv.Atoi(tokens[1])
		if err != nil || uses < 0 {
			return nil, fmt.Errorf("invalid use count in %q", value)
		}

		app := v1.ProjectApplication{
			Id:          fmt.Sprintf("app-%d", i+1),
			ProjectName: tokens[0],
			UseCount:    uses,
		}
		if len(tokens) > 2 {
			app.Team = tokens[2]
		}
		if len(tokens) > 3 {
			app.Status = tokens[3]
		}
		apps = append(apps, app)
	}

	return apps, nil
}
