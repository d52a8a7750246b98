package main

import (
	"ghumakad/config"
	"ghumakad/di"
	"ghumakad/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
