/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Vgrid Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"

	"github.com/google/vgrid/config"
	"github.com/google/vgrid/demo"
)

func main() {
	configPath := flag.String("config", "vgrid.yaml", "path to the config file")
	addr := flag.String("addr", "", "listen address, overriding server.addr")
	flag.Parse()

	fmt.Println("Starting Vgrid...")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	app, err := demo.SetupServer(cfg)
	if err != nil {
		log.Fatalf("Failed to set up server: %v", err)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := app.Watch(ctx); err != nil {
		log.Printf("Not watching source: %v", err)
	}

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: app.Server.Handler()}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	fmt.Printf("\nServer starting on http://%s\n", displayAddr(cfg.Server.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

// displayAddr turns a listen address into one a browser can open.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "127.0.0.1" + addr
	}
	return addr
}
