// Package resilience groups the fault tolerance helpers used by the news
// pipeline: retry with exponential backoff for transient network failures,
// and circuit breakers that stop hammering an agency site or summarizer
// provider while it is down.
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.ScrapeConfig("IRNA"))
//	_, err := cb.Execute(func() (interface{}, error) {
//	    return nil, retry.WithBackoff(ctx, retry.ScrapeConfig(), fetch)
//	})
package resilience
