package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/bookstore/config"
	"github.com/shashiranjanraj/bookstore/internal/kernel"
	"github.com/shashiranjanraj/bookstore/internal/server"
)

// bookstore serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := bootDB(ctx); err != nil {
			return err
		}
		k, store, err := bootKernel(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		go k.Background(ctx)
		if config.OverdueSweepEnabled() {
			go startScheduler(ctx, k.Events())
		}

		return server.Start(ctx, ":"+config.AppPort(), k.Handler())
	},
}

// bookstore route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		// Routes are registered without touching the database.
		k, err := kernel.NewHTTPKernel(kernel.Options{Auth: config.Auth(), Catalog: config.Catalog()})
		if err != nil {
			return err
		}

		infos := k.Routes()
		sort.SliceStable(infos, func(i, j int) bool {
			if infos[i].Path != infos[j].Path {
				return infos[i].Path < infos[j].Path
			}
			return infos[i].Method < infos[j].Method
		})

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range infos {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}
