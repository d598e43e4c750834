package main

import (
	"os"

	"github.com/amital-ui/aichat/internal/app"
)

// @title           AI Chat Widget API
// @version         1.0
// @description     Session-backed API for the embeddable AI chat widget: conversations, streaming replies, and citation documents.
// @BasePath        /api
func main() {
	os.Exit(app.Run())
}
