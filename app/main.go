// Author: DoItWithASmile (2025). Apache 2.0 License

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/DoItWithASmile/git-it-write/app/config"
	"github.com/DoItWithASmile/git-it-write/app/logging"
	"github.com/DoItWithASmile/git-it-write/app/server"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// wait for termination
	signalChannel := make(chan os.Signal, 2)
	signal.Notify(signalChannel, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-signalChannel
		switch sig {
		case os.Interrupt, syscall.SIGTERM:
			logging.Logger.Println("quiting...")
			cancel()
		}
	}()

	if !config.RedisReady(ctx) {
		logging.Logger.Println("redis not reachable at startup, continuing anyway")
	}

	if err := server.Start(ctx); err != nil {
		logging.Logger.Println("server error:", err)
		os.Exit(1)
	}
	logging.Logger.Println("exit")
}
