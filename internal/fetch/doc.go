// Package fetch is the remote fetch adapter for the story store.
//
// A Fetcher turns an endpoint URL into the records of one search result.
// HTTPFetcher talks to the Hacker News search API (hn.algolia.com), which
// answers with a JSON body of the form {"hits": [...]}. Every failure mode
// (transport, non-2xx status, undecodable body, rejected payload) surfaces
// as an *Error matching ErrFetchFailed, the single error kind the store
// driver reacts to.
//
// Payloads are accepted as they come by default. WithValidation enables a
// CUE schema check of every hit before the records are returned.
package fetch
