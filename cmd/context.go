package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/emrgen/modelhub"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configFileName = "modelhub"
	configDir      = "./.tmp"
	requestTimeout = 30 * time.Second
)

var contextCommand = &cobra.Command{
	Use:   "context",
	Short: "context commands",
}

func init() {
	contextCommand.AddCommand(setContextCommand())
	contextCommand.AddCommand(currentContextCommand())
	contextCommand.AddCommand(resetContextCommand())
}

// Context is the cli state kept between invocations.
type Context struct {
	Server string `json:"server" mapstructure:"server"`
	User   string `json:"user" mapstructure:"user"`
}

// saves the context info to the config file in ./.tmp
func setContextCommand() *cobra.Command {
	var server string
	var user string
	command := &cobra.Command{
		Use:   "set",
		Short: "set context",
		Run: func(cmd *cobra.Command, args []string) {
			if server == "" && user == "" {
				color.Red(`missing: --server or --user`)
				return
			}

			current := readContext()
			if server != "" {
				current.Server = server
			}
			if user != "" {
				current.User = user
			}

			if err := writeContext(current); err != nil {
				fmt.Println("error writing config file: ", err)
			} else {
				fmt.Println("context saved")
			}
		},
	}

	command.Flags().StringVarP(&server, "server", "s", "", "grpc address of the server")
	command.Flags().StringVarP(&user, "user", "u", "", "user name recorded as uploader")

	return command
}

func currentContextCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "current",
		Short: "current context",
		Run: func(cmd *cobra.Command, args []string) {
			current := readContext()
			server := current.Server
			if server == "" {
				server = modelhub.DefaultAddress + " (default)"
			}
			printField("Server", server)
			printField("User", current.User)
		},
	}

	return command
}

func resetContextCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "reset",
		Short: "reset context",
		Run: func(cmd *cobra.Command, args []string) {
			if err := writeContext(Context{}); err != nil {
				fmt.Println("error writing config file: ", err)
				return
			}
			fmt.Println("context reset")
		},
	}

	return command
}

func contextViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName(configFileName)
	v.AddConfigPath(configDir)
	v.SetConfigType("yml")
	return v
}

func writeContext(ctx Context) error {
	if err := ensureContextFile(); err != nil {
		return err
	}

	v := contextViper()
	v.Set("context", map[string]string{
		"server": ctx.Server,
		"user":   ctx.User,
	})

	return v.WriteConfigAs(filepath.Join(configDir, configFileName+".yml"))
}

func readContext() Context {
	var ctx Context

	if err := ensureContextFile(); err != nil {
		fmt.Println("error creating config file: ", err)
		return ctx
	}

	v := contextViper()
	if err := v.ReadInConfig(); err != nil {
		fmt.Println("error reading config file: ", err)
		return ctx
	}

	if err := v.UnmarshalKey("context", &ctx); err != nil {
		fmt.Println("error unmarshalling config file: ", err)
	}

	return ctx
}

// create file if it doesn't exist
func ensureContextFile() error {
	path := filepath.Join(configDir, configFileName+".yml")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	return file.Close()
}

// dial connects to the server of the current context.
func dial() (modelhub.Client, error) {
	return modelhub.NewClient(readContext().Server)
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}
