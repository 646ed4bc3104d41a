// Package api is the thin HTTP boundary of the workflow controller. It issues
// JSON POST requests against the remote authentication service and returns one
// normalized [Result] shape regardless of what the server answered with.
//
// # Error discipline
//
// A transport failure (connection refused, context cancellation, DNS) is the
// only condition surfaced as a returned error. Everything the server manages
// to answer — including empty or non-JSON bodies — resolves into a Result, a
// malformed body synthesizing
//
//	Result{Success: false, Message: "Invalid response"}
//
// so callers branch on Result.Success for business outcomes and on the error
// for transport outcomes. No retries, no timeouts beyond the injected
// http.Client, no auth header injection.
package api
