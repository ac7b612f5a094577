// Package target issues requests against the key-value store's REST API.
//
// The API has two operations used for load generation:
//
//	POST /key        JSON body {"<key>": "<value>"}
//	GET  /key/<key>  no body
//
// Every request returns a stats.Sample regardless of outcome; the client
// never retries, never inspects response bodies, and treats non-2xx statuses
// and transport errors alike as data for the statistics layer. Reads are
// reported under the metric name "/key" so statistics aggregate across all
// random keys as a single logical endpoint.
//
// # Basic Usage
//
//	c := target.New("http://localhost:11000")
//
//	sample := c.Put(ctx, "1234", "1234abcd-....")
//	collector.Record(sample)
//
//	sample = c.Get(ctx, "beef")
//	collector.Record(sample)
package target
