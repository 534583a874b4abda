// Package runner starts remote actor or task runs that produce the tested dataset.
//
// A Runner executes a Request and returns the finished Run. Callers treat any
// status other than StatusSucceeded as a failed run; Run.DefaultDatasetID
// names the dataset the run wrote its output to.
//
// HTTPRunner talks to an Apify compatible API with the fiber HTTP client.
// Static returns a canned run and records the requests it received, for tests
// and offline use.
package runner
