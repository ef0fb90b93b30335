// Package listeners subscribes application-level reactions to the event bus.
package listeners

import (
	"strconv"

	"github.com/shashiranjanraj/bookstore/app/services"
	"github.com/shashiranjanraj/bookstore/pkg/event"
	"github.com/shashiranjanraj/bookstore/pkg/metrics"
)

// RegisterMetrics feeds loan and catalog events into the Prometheus counters.
func RegisterMetrics(bus *event.Bus) {
	bus.Listen(services.EventLoanCheckedOut, func(p interface{}) {
		e, ok := p.(services.LoanCheckedOut)
		if !ok {
			return
		}
		metrics.Checkouts.Inc()
		metrics.UnitsLoaned.Add(float64(e.Units))
	})

	bus.Listen(services.EventLoanCheckoutFailed, func(p interface{}) {
		if e, ok := p.(services.LoanCheckoutFailed); ok {
			metrics.CheckoutFailures.WithLabelValues(e.Reason).Inc()
		}
	})

	bus.Listen(services.EventLoanReturned, func(p interface{}) {
		if e, ok := p.(services.LoanReturned); ok {
			metrics.Returns.WithLabelValues(strconv.FormatBool(e.DaysOverdue > 0)).Inc()
		}
	})

	bus.Listen(services.EventLoansMarkedOverdue, func(p interface{}) {
		if e, ok := p.(services.LoansMarkedOverdue); ok {
			metrics.OverdueMarked.Add(float64(e.Count))
		}
	})

	bus.Listen(services.EventCatalogLookupFailed, func(p interface{}) {
		if e, ok := p.(services.CatalogLookupFailed); ok {
			metrics.CatalogFailures.WithLabelValues(e.Op).Inc()
		}
	})
}
