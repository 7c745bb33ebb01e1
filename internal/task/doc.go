// Package task models SEO work items and the policy that produces and
// orders them.
//
// A Classifier turns a serp.Observation into a WorkItem using fixed
// position thresholds. Select filters loaded work items by a minimum score,
// orders them by descending score and truncates them to a per-run cap.
// Ordering is stable so that a run over the same input always acts on the
// same items in the same order.
package task
