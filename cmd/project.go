package cmd

import (
	"os"
	"strconv"

	v1 "github.com/emrgen/modelhub/apis/v1"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "project usage commands",
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	projectCmd.AddCommand(listProjectsCmd())
	projectCmd.AddCommand(projectStatsCmd())
}

func listProjectsCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "list",
		Short: "list projects with the models they use",
		Run: func(cmd *cobra.Command, args []string) {
			client, err := dial()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			ctx, cancel := requestContext()
			defer cancel()
			res, err := client.ListProjects(ctx, &v1.ListProjectsRequest{})
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Project", "Models", "Uses", "Status", "Team"})
			for _, p := range res.Projects {
				table.Append([]string{p.Name, strconv.Itoa(p.Stats.ModelCount), strconv.Itoa(p.Stats.TotalUseCount), p.Stats.Status, p.Stats.Team})
			}
			table.Render()
		},
	}

	return command
}

func projectStatsCmd() *cobra.Command {
	var projectName string

	var required = []string{"project"}

	command := &cobra.Command{
		Use:   "stats",
		Short: "aggregate usage of a project",
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
			res, err := client.ProjectStats(ctx, &v1.ProjectStatsRequest{ProjectName: projectName})
			if err != nil {
				logrus.Error(err)
				return
			}

			printStats(res.ProjectName, *res.Stats)
			printField("Description", res.Stats.Description)
		},
	}

	command.Flags().StringVarP(&projectName, "project", "p", "", "project name (required)")

	return command
}
