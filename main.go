// Package main is the entry point for the micplay application.
package main

import (
	"github.com/micplay/micplay/cmd"
	"github.com/micplay/micplay/config"
	"github.com/micplay/micplay/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
