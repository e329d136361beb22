// Package analysis produces natural-language network-health summaries
// for a location's assets via an external generative-text API.
//
// The collaborator is best-effort by contract: a missing credential, a
// transport failure, or a malformed reply never surfaces as an error to
// the dashboard. Analyze always returns a well-formed, clearly-labelled
// Result, substituting the fallback summary when the service is
// unavailable. Results are location-scoped and ephemeral; nothing here
// is persisted.
package analysis
