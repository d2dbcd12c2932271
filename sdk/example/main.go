package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/harmonyconnect/harmony-sdk-go/pkg/logtrace"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/codec"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/config"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/event"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/example/notary"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/harmony"
	sdklog "github.com/harmonyconnect/harmony-sdk-go/sdk/log"
)

func main() {
	cfgFile := "config.yml"
	if len(os.Args) > 2 {
		cfgFile = os.Args[2]
	}
	if len(os.Args) < 2 {
		log.Fatalf("usage: %s <document> [config.yml]", os.Args[0])
	}
	document := os.Args[1]

	cfg, err := config.Load(cfgFile)
	if err != nil {
		log.Fatalf("Failed to load configuration file %s: %v", cfgFile, err)
	}
	logtrace.Setup("harmony-notary", cfg.Log.Env, cfg.Log.Level)
	defer logtrace.Sync()

	client, err := harmony.NewClient(*cfg, harmony.WithLogger(sdklog.NewTraceLogger(logtrace.ValueNotary)))
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}

	bus := event.NewBus(nil, 1)
	bus.SubscribeAll(func(e event.Event) {
		fmt.Printf("%s %-18s %s %v\n", e.Timestamp.Format(time.TimeOnly), e.Type, e.Step, e.Data)
	})
	defer bus.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res, err := notary.NewRunner(client, notary.WithBus(bus)).Run(ctx, document)
	if err != nil {
		log.Fatalf("Notary simulation failed: %v", err)
	}

	out, err := codec.JSON.MarshalIndent(res, "", "  ")
	if err != nil {
		log.Fatalf("Failed to render result: %v", err)
	}
	bus.WaitForHandlers()
	fmt.Println(string(out))
}
