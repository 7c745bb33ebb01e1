// Package pipeline runs the two phases of an SEO automation run.
//
// # Observe
//
// [Pipeline.Observe] probes the ranking oracle, observes every configured
// keyword once with a pause between lookups, classifies the observations
// into work items and writes the rank report and enriched task sinks. An
// unreachable oracle at the health check is the only fatal condition; a
// failed lookup only drops its keyword.
//
// # Implement
//
// [Pipeline.Implement] loads scored work items from the task source,
// selects the bounded set to act on and dispatches them one at a time.
// Every selected item ends in exactly one of the implemented, failed or
// skipped buckets of the run summary, which is written once at the end.
// A missing task source yields an empty run rather than an error.
//
// # Usage
//
//	p, _ := pipeline.New(cfg, runID, pipeline.WithLogger(logger))
//	if _, err := p.Observe(ctx); err != nil {
//	    return err
//	}
//	summary, err := p.Implement(ctx)
package pipeline
