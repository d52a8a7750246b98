package handler

import (
	"net/http"

	"ghumakad/config"
	"ghumakad/di"
	"ghumakad/shared/logger"
)

func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	svc := di.InitializeService()
	svc.Handler().ServeHTTP(w, r)
}
