package main

import (
	"github.com/mj1618/screen-pilot/cmd"
	_ "github.com/mj1618/screen-pilot/internal/platform/darwin"
)

func main() {
	cmd.Execute()
}
