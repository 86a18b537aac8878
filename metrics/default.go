package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/uber-go/tally"
)

// newConsoleScope reports metrics to stdout. Only meant for poking at the
// tracker locally; use statsd or m3 anywhere real.
func newConsoleScope() (tally.Scope, io.Closer, error) {
	s, c := tally.NewRootScope(tally.ScopeOptions{
		Reporter: consoleReporter{},
	}, time.Second)
	return s, c, nil
}

type consoleReporter struct{}

func (r consoleReporter) ReportCounter(name string, _ map[string]string, value int64) {
	fmt.Printf("count %s %d\n", name, value)
}

func (r consoleReporter) ReportGauge(name string, _ map[string]string, value float64) {
	fmt.Printf("gauge %s %f\n", name, value)
}

func (r consoleReporter) ReportTimer(name string, _ map[string]string, interval time.Duration) {
	fmt.Printf("timer %s %s\n", name, interval)
}

func (r consoleReporter) ReportHistogramValueSamples(
	name string, _ map[string]string, _ tally.Buckets,
	lower, upper float64, samples int64) {

	fmt.Printf("histogram %s [%f, %f] %d\n", name, lower, upper, samples)
}

func (r consoleReporter) ReportHistogramDurationSamples(
	name string, _ map[string]string, _ tally.Buckets,
	lower, upper time.Duration, samples int64) {

	fmt.Printf("histogram %s [%s, %s] %d\n", name, lower, upper, samples)
}

func (r consoleReporter) Capabilities() tally.Capabilities { return r }
func (r consoleReporter) Reporting() bool                  { return true }
func (r consoleReporter) Tagging() bool                    { return false }
func (r consoleReporter) Flush()                           {}
