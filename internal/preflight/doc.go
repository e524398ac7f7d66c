// Package preflight provides readiness checks for the filesystem paths and
// the catalog endpoint that subseek depends on.
//
// The CLI "subseek check" command runs RunAll and prints one line per
// Result. Individual checks (CheckDirectoryAccess, CheckEndpoint,
// CheckLookupCache) are exported for callers that only need one of them.
//
// The lookup cache check is skipped when the cache is disabled.
package preflight
