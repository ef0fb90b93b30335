package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/bookstore/app/listeners"
	"github.com/shashiranjanraj/bookstore/app/services"
	"github.com/shashiranjanraj/bookstore/config"
	"github.com/shashiranjanraj/bookstore/pkg/database"
	"github.com/shashiranjanraj/bookstore/pkg/event"
	"github.com/shashiranjanraj/bookstore/pkg/schedule"
	"gorm.io/gorm"
)

func newScheduler(bus *event.Bus) *schedule.Scheduler {
	s := schedule.New()
	if config.OverdueSweepEnabled() {
		sweeper := services.NewOverdueSweeper(database.DB, nil, bus)
		s.Every(config.OverdueSweepInterval()).Name("loans:sweep").WithoutOverlapping().Run(func(ctx context.Context) error {
			_, err := sweeper.Sweep(ctx)
			return err
		})
	}
	return s
}

// metricsBus returns a bus with the Prometheus listeners attached.
func metricsBus() *event.Bus {
	bus := event.New()
	listeners.RegisterMetrics(bus)
	return bus
}

// sweepOverdue runs one overdue sweep and records it in the metrics.
func sweepOverdue(ctx context.Context, db *gorm.DB) (int64, error) {
	return services.NewOverdueSweeper(db, nil, metricsBus()).Sweep(ctx)
}

func startScheduler(ctx context.Context, bus *event.Bus) {
	newScheduler(bus).Start(ctx)
}

// bookstore schedule:run
var scheduleRunCmd = &cobra.Command{
	Use:   "schedule:run",
	Short: "Start the task scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := bootDB(ctx); err != nil {
			return err
		}
		s := newScheduler(metricsBus())
		tasks := s.List()
		if len(tasks) == 0 {
			fmt.Println("No scheduled tasks registered. Set OVERDUE_SWEEP=true to enable the overdue sweep.")
			return nil
		}
		fmt.Println("Registered scheduled tasks:")
		for _, t := range tasks {
			fmt.Println("  -", t)
		}

		s.Start(ctx)
		fmt.Println("Scheduler stopped.")
		return nil
	},
}

// bookstore loans:sweep
var loansSweepCmd = &cobra.Command{
	Use:   "loans:sweep",
	Short: "Mark active loans past their due date as overdue",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(cmd.Context()); err != nil {
			return err
		}
		n, err := sweepOverdue(cmd.Context(), database.DB)
		if err != nil {
			return err
		}
		fmt.Printf("Marked %d loan(s) overdue.\n", n)
		return nil
	},
}
