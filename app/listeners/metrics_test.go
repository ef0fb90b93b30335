package listeners

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shashiranjanraj/bookstore/app/services"
	"github.com/shashiranjanraj/bookstore/pkg/event"
	"github.com/shashiranjanraj/bookstore/pkg/metrics"
	"github.com/stretchr/testify/assert"
)

func TestRegisterMetrics(t *testing.T) {
	bus := event.New()
	RegisterMetrics(bus)

	checkouts := testutil.ToFloat64(metrics.Checkouts)
	units := testutil.ToFloat64(metrics.UnitsLoaned)
	late := testutil.ToFloat64(metrics.Returns.WithLabelValues("true"))
	stock := testutil.ToFloat64(metrics.CheckoutFailures.WithLabelValues("insufficient_stock"))
	overdue := testutil.ToFloat64(metrics.OverdueMarked)
	catalog := testutil.ToFloat64(metrics.CatalogFailures.WithLabelValues("isbn"))

	bus.Fire(services.EventLoanCheckedOut, services.LoanCheckedOut{UserID: 1, Units: 3, DueDate: time.Now()})
	bus.Fire(services.EventLoanReturned, services.LoanReturned{UserID: 1, LoanID: 9, DaysOverdue: 2})
	bus.Fire(services.EventLoanCheckoutFailed, services.LoanCheckoutFailed{UserID: 1, Reason: "insufficient_stock"})
	bus.Fire(services.EventLoansMarkedOverdue, services.LoansMarkedOverdue{Count: 4})
	bus.Fire(services.EventCatalogLookupFailed, services.CatalogLookupFailed{Op: "isbn", Err: errors.New("503")})
	bus.Fire(services.EventLoanCheckedOut, "not a payload")

	assert.Equal(t, checkouts+1, testutil.ToFloat64(metrics.Checkouts))
	assert.Equal(t, units+3, testutil.ToFloat64(metrics.UnitsLoaned))
	assert.Equal(t, late+1, testutil.ToFloat64(metrics.Returns.WithLabelValues("true")))
	assert.Equal(t, stock+1, testutil.ToFloat64(metrics.CheckoutFailures.WithLabelValues("insufficient_stock")))
	assert.Equal(t, overdue+4, testutil.ToFloat64(metrics.OverdueMarked))
	assert.Equal(t, catalog+1, testutil.ToFloat64(metrics.CatalogFailures.WithLabelValues("isbn")))
}
