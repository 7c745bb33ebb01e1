// Package serp looks up search rankings for keywords from the external
// ranking oracle.
//
// [Client] performs one lookup per call and never fails with anything other
// than an [errors.ObservationError]; callers decide what to do with a keyword
// whose lookup failed. [Sweeper] observes a list of keywords in sequence and
// applies the inter-call delay the oracle's rate limits require.
//
//	client := serp.NewClient("http://localhost:5000", "/api/serp/ranking")
//	if err := client.HealthCheck(ctx, 2*time.Second); err != nil {
//	    return err // oracle down: nothing else can run
//	}
//	sweep := (&serp.Sweeper{Observer: client, Delay: 1500 * time.Millisecond}).Run(ctx, keywords)
//
// [errors.ObservationError]: github.com/seopilot/seopilot/internal/errors.ObservationError
package serp
