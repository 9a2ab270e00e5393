// Package main is the entry point for the testhealth CLI.
package main

import (
	"github.com/huangsam/testhealth/cmd"
	"github.com/huangsam/testhealth/internal/contract"
	"github.com/huangsam/testhealth/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)
	defer iocache.CloseCaching()

	if err := cmd.Execute(); err != nil {
		iocache.CloseCaching()
		contract.LogFatal("Command failed", err)
	}
	if err := cmd.StopProfiling(); err != nil {
		contract.LogWarn("Failed to stop profiling", err)
	}
}
