package cmd

import (
	"github.com/emrgen/modelhub/internal/config"
	"github.com/emrgen/modelhub/internal/model"
	"github.com/emrgen/modelhub/internal/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "db commands",
}

func init() {
	dbCmd.AddCommand(Migrate())
}

func Migrate() *cobra.Command {
	command := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the database",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.LoadConfig()
			db := config.GetDb(cfg)
			err := model.Migrate(db)
			if err != nil {
				panic(err)
			}
			logrus.Infof("%s database migrated", cfg.DbDriver)
		},
	}

	return command
}

func serveCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "serve",
		Short: "Start the grpc server and the rest gateway",
		Run: func(cmd *cobra.Command, args []string) {
			server.NewServer(config.LoadConfig()).Start()
		},
	}

	return command
}
