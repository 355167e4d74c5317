package main

import (
	"os"

	"github.com/jsvensson/customtheme/internal/lsp"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var version = "dev"

func main() {
	commonlog.Configure(1, nil)

	s := lsp.NewServer(version)
	if err := s.Run(); err != nil {
		os.Exit(1)
	}
}
