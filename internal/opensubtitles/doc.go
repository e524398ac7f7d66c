// Package opensubtitles is a session client for the OpenSubtitles XML-RPC
// catalog.
//
// A Session walks a strict state machine: LogIn moves it from
// Unauthenticated to Authenticated, SearchSubtitles queries the catalog by
// file fingerprint without changing state, and LogOut (or Close) moves it to
// Closed and discards the token. Calls made in the wrong state fail before
// any request leaves the process. Use With to guarantee a best-effort
// logout on every exit path.
//
// Transport carries calls over HTTP. It encodes requests with
// github.com/kolo/xmlrpc, optionally gzips bodies, decompresses responses
// only when the server says it compressed them, and honours proxy settings.
// Outer HTTP failures surface as *TransportError and server faults as
// *FaultError. Answers that decode but lack the expected envelope fields
// surface as *NoStatusKeyError, *BadStatusError, *NoTokenKeyError, or
// *NoDataKeyError.
//
// Nothing in this package retries. IsRetriable lets callers build their own
// policy.
package opensubtitles
