package cmd

import (
	"strconv"

	v1 "github.com/emrgen/modelhub/apis/v1"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "model library commands",
}

func init() {
	rootCmd.AddCommand(modelCmd)
	modelCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	modelCmd.AddCommand(createModelCmd())
	modelCmd.AddCommand(getModelCmd())
	modelCmd.AddCommand(listModelCmd())
	modelCmd.AddCommand(updateModelCmd())
	modelCmd.AddCommand(deleteModelCmd())
	modelCmd.AddCommand(publicModelCmd())
	modelCmd.AddCommand(resyncCmd())
}

func createModelCmd() *cobra.Command {
	var library string
	var modelID string
	var name string
	var modelType string
	var description string
	var version string
	var project string
	var tags []string
	var rflp string
	var upstream []string
	var downstream []string
	var apps []string
	var public bool
	var status string

	var required = []string{"name", "version"}

	command := &cobra.Command{
		Use:     "create",
		Short:   "upload a model",
		Long:    `upload a model to the personal or the project library. The public library is derived and cannot be written.`,
		Example: "modelhub model create -l personal -n <name> -v 1.0.0 -y SysML --tags thermal,power --app apollo:3:gnc",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}
			if !checkValidSemvar(version) {
				color.Red("invalid version %q, expected a semantic version", version)
				return
			}

			applications, err := parseApplications(apps)
			if err != nil {
				logrus.Error(err)
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
			res, err := client.CreateModel(ctx, &v1.CreateModelRequest{
				Library:  library,
				Id:       modelID,
				IsPublic: public,
				Status:   status,
				Draft: &v1.ModelDraft{
					Name:                name,
					Type:                modelType,
					Description:         description,
					Version:             version,
					Project:             project,
					Tags:                tags,
					RflpCategory:        rflp,
					Dependencies:        v1.Dependencies{Upstream: upstream, Downstream: downstream},
					Uploader:            readContext().User,
					ProjectApplications: applications,
				},
			})
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("model created with id: %s", res.Model.Id)
		},
	}

	command.Flags().StringVarP(&library, "library", "l", "personal", "library to upload to: personal or project")
	command.Flags().StringVarP(&modelID, "id", "i", "", "model id, generated when empty")
	command.Flags().StringVarP(&name, "name", "n", "", "model name (required)")
	command.Flags().StringVarP(&version, "version", "v", "", "semantic version (required)")
	command.Flags().StringVarP(&modelType, "type", "y", "", "model type, such as SysML or Modelica")
	command.Flags().StringVarP(&description, "description", "d", "", "description")
	command.Flags().StringVarP(&project, "project", "p", "", "owning project")
	command.Flags().StringSliceVar(&tags, "tags", nil, "comma separated tags")
	command.Flags().StringVar(&rflp, "rflp", "", "rflp category")
	command.Flags().StringSliceVar(&upstream, "up", nil, "upstream model ids")
	command.Flags().StringSliceVar(&downstream, "down", nil, "downstream model ids")
	command.Flags().StringArrayVar(&apps, "app", nil, "project usage as <project>:<uses>[:<team>[:<status>]]")
	command.Flags().BoolVar(&public, "public", false, "share a personal model in the public library")
	command.Flags().StringVar(&status, "status", "", "initial status of a project model")

	command.Flags().SortFlags = false

	return command
}

func getModelCmd() *cobra.Command {
	var library string
	var modelID string

	var required = []string{"id"}

	command := &cobra.Command{
		Use:   "get",
		Short: "get a model",
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
			res, err := client.GetModel(ctx, &v1.GetModelRequest{Library: library, Id: modelID})
			if err != nil {
				logrus.Error(err)
				return
			}

			printModel(res.Model)
		},
	}

	command.Flags().StringVarP(&library, "library", "l", "personal", "library of the model")
	command.Flags().StringVarP(&modelID, "id", "i", "", "model id (required)")
	command.Flags().SortFlags = false

	return command
}

func listModelCmd() *cobra.Command {
	var library string
	var search string
	var types []string
	var tags []string
	var rflp string

	command := &cobra.Command{
		Use:   "list",
		Short: "list the models of a library",
		Run: func(cmd *cobra.Command, args []string) {
			client, err := dial()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			ctx, cancel := requestContext()
			defer cancel()
			res, err := client.ListModels(ctx, &v1.ListModelsRequest{
				Library:      library,
				Search:       search,
				Types:        types,
				Tags:         tags,
				RflpCategory: rflp,
			})
			if err != nil {
				logrus.Error(err)
				return
			}

			printModels(res.Models)
		},
	}

	command.Flags().StringVarP(&library, "library", "l", "personal", "personal, public or project")
	command.Flags().StringVarP(&search, "search", "s", "", "search name, description and tags")
	command.Flags().StringSliceVar(&types, "type", nil, "model types")
	command.Flags().StringSliceVar(&tags, "tag", nil, "tags, any may match")
	command.Flags().StringVar(&rflp, "rflp", "", "rflp category")
	command.Flags().SortFlags = false

	return command
}

func updateModelCmd() *cobra.Command {
	var library string
	var modelID string
	var name string
	var description string
	var version string
	var tags []string
	var apps []string

	var required = []string{"id"}

	command := &cobra.Command{
		Use:   "update",
		Short: "update a model",
		Long: `Update the content of a model with the given id.

Constraint:
 1. public mirrors cannot be updated.
 2. project mirrors only accept --app, the project usage survives resynchronization.
`,
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			patch := &v1.ModelPatch{}
			if cmd.Flag("name").Changed {
				patch.Name = &name
			}
			if cmd.Flag("description").Changed {
				patch.Description = &description
			}
			if cmd.Flag("version").Changed {
				if !checkValidSemvar(version) {
					color.Red("invalid version %q, expected a semantic version", version)
					return
				}
				patch.Version = &version
			}
			if cmd.Flag("tags").Changed {
				patch.Tags = &tags
			}
			if cmd.Flag("app").Changed {
				applications, err := parseApplications(apps)
				if err != nil {
					logrus.Error(err)
					return
				}
				patch.ProjectApplications = &applications
			}

			client, err := dial()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			ctx, cancel := requestContext()
			defer cancel()
			res, err := client.UpdateModel(ctx, &v1.UpdateModelRequest{Library: library, Id: modelID, Patch: patch})
			if err != nil {
				logrus.Error(err)
				return
			}

			printModel(res.Model)
		},
	}

	command.Flags().StringVarP(&library, "library", "l", "personal", "library of the model")
	command.Flags().StringVarP(&modelID, "id", "i", "", "model id (required)")
	command.Flags().StringVarP(&name, "name", "n", "", "name")
	command.Flags().StringVarP(&description, "description", "d", "", "description")
	command.Flags().StringVarP(&version, "version", "v", "", "semantic version")
	command.Flags().StringSliceVar(&tags, "tags", nil, "comma separated tags, replaces the current tags")
	command.Flags().StringArrayVar(&apps, "app", nil, "project usage as <project>:<uses>[:<team>[:<status>]]")
	command.Flags().SortFlags = false

	return command
}

func deleteModelCmd() *cobra.Command {
	var library string
	var modelID string

	var required = []string{"id"}

	command := &cobra.Command{
		Use:   "delete",
		Short: "delete a model and its mirrors",
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
			_, err = client.DeleteModel(ctx, &v1.DeleteModelRequest{Library: library, Id: modelID})
			if err != nil {
				logrus.Error(err)
				return
			}

			color.Magenta("deleted model: %s", modelID)
		},
	}

	command.Flags().StringVarP(&library, "library", "l", "personal", "library of the model")
	command.Flags().StringVarP(&modelID, "id", "i", "", "model id (required)")
	command.Flags().SortFlags = false

	return command
}

func publicModelCmd() *cobra.Command {
	var modelID string
	var off bool

	var required = []string{"id"}

	command := &cobra.Command{
		Use:   "public",
		Short: "share a personal model in the public library",
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
			res, err := client.SetPublic(ctx, &v1.SetPublicRequest{Id: modelID, Public: !off})
			if err != nil {
				logrus.Error(err)
				return
			}

			if res.Model.IsPublic {
				color.Green("model %s is public", modelID)
			} else {
				color.Yellow("model %s is private", modelID)
			}
		},
	}

	command.Flags().StringVarP(&modelID, "id", "i", "", "personal model id (required)")
	command.Flags().BoolVar(&off, "off", false, "remove the model from the public library")
	command.Flags().SortFlags = false

	return command
}

func resyncCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "resync",
		Short: "rebuild every public and project mirror",
		Run: func(cmd *cobra.Command, args []string) {
			client, err := dial()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			ctx, cancel := requestContext()
			defer cancel()
			res, err := client.Resync(ctx, &v1.ResyncRequest{})
			if err != nil {
				logrus.Error(err)
				return
			}

			printField("Public mirrors", strconv.Itoa(res.PublicMirrors))
			printField("Project mirrors", strconv.Itoa(res.ProjectMirrors))
		},
	}

	return command
}
