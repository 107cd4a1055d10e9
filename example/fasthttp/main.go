// FILE: examples/fasthttp/main.go
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/lixenwraith/dblog"
	"github.com/lixenwraith/dblog/compat"
	"github.com/valyala/fasthttp"
)

func main() {
	logger := dblog.NewLogger()
	err := logger.ApplyConfigString(
		"directory=/var/log/fasthttp",
		"name=http",
		"level=info",
		"max_size_kb=262144",
	)
	if err != nil {
		panic(err)
	}
	if err := logger.Start(); err != nil {
		panic(err)
	}
	defer logger.Shutdown()

	fasthttpAdapter := compat.NewFastHTTPAdapter(
		logger,
		compat.WithLevelDetector(customLevelDetector),
	)

	server := &fasthttp.Server{
		Handler: func(ctx *fasthttp.RequestCtx) {
			ctx.SetContentType("text/plain")
			fmt.Fprintf(ctx, "Hello, world! Path: %s\n", ctx.Path())
			logger.Info("served", string(ctx.Path()), "from", ctx.RemoteAddr())
		},
		Logger: fasthttpAdapter,

		Name:              "MyServer",
		Concurrency:       fasthttp.DefaultConcurrency,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		TCPKeepalive:      true,
		ReduceMemoryUsage: true,
	}

	fmt.Println("Starting server on :8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		logger.Fatal("server stopped:", err)
	}
}

func customLevelDetector(msg string) int64 {
	if strings.Contains(msg, "connection cannot be served") {
		return dblog.LevelWarning
	}
	if strings.Contains(msg, "error when serving connection") {
		return dblog.LevelError
	}
	return compat.DetectLogLevel(msg)
}
