package main

import (
	"github.com/roomtab/webhook-svc/internal/app"
	"github.com/roomtab/webhook-svc/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
