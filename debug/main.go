package main

import (
	"github.com/emrgen/modelhub/internal/config"
	"github.com/emrgen/modelhub/internal/server"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.LoadConfig()
	cfg.LogLevel = "debug"

	err := server.Start(cfg)
	if err != nil {
		logrus.Fatal(err)
	}
}
