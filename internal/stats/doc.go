// Package stats collects and aggregates request samples.
//
// A Sample is the timed outcome of one generated request: metric name,
// HTTP method, status code, latency, and transport error if any. The
// Collector aggregates samples into totals, throughput (RPS), latency
// percentiles, error rates, and a per-metric-name breakdown. Read requests
// for distinct random keys all report under one normalized name, so the
// breakdown stays aggregated per logical endpoint.
//
// # Basic Usage
//
//	c := stats.New()
//
//	c.Record(stats.Sample{
//	    Name: "/key", Method: "GET", Status: 200, Latency: elapsed,
//	})
//
//	fmt.Printf("Total: %d, RPS: %.2f, P99: %v\n",
//	    c.TotalRequests(), c.RPS(), c.P99Latency())
//
//	snap := c.Snapshot()
//
// # Prometheus Export
//
// Every recorded sample also feeds a Prometheus summary labelled by metric
// name and method, and failures increment a counter labelled additionally by
// status. Expose serves the scrape endpoint:
//
//	go func() {
//	    if err := stats.Expose(":9100"); err != nil {
//	        logger.Error("", "metrics listener: %v", err)
//	    }
//	}()
//
// # Thread Safety
//
// All operations use atomic counters or a shared mutex and are safe for
// concurrent access.
package stats
