package main

import (
	"context"

	mshttp "github.com/fwojciec/metascrape/http"
	"golang.org/x/sync/errgroup"
)

// Run starts the HTTP server and blocks until the context is cancelled,
// then shuts it down within ShutdownTimeout.
func (c *ServeCmd) Run(deps *Dependencies) error {
	srv := mshttp.NewServer(deps.Service, deps.Logger,
		mshttp.WithAddr(c.Addr),
		mshttp.WithPath(c.Path),
	)

	g, ctx := errgroup.WithContext(deps.Ctx)
	g.Go(srv.ListenAndServe)
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), c.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
