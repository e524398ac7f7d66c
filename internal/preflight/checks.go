package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"subseek/internal/config"
	"subseek/internal/lookupcache"
	"subseek/internal/opensubtitles"
)

const catalogCheckName = "Catalog endpoint"

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckLookupCache opens the lookup database to surface schema mismatches
// and permission problems before a search needs it.
func CheckLookupCache(cfg *config.Config) Result {
	const name = "Lookup cache"

	store, err := lookupcache.Open(cfg)
	if err != nil {
		if errors.Is(err, lookupcache.ErrSchemaMismatch) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (schema out of date; delete it to rebuild)", cfg.LookupDBPath())}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", cfg.LookupDBPath(), err)}
	}
	defer store.Close()
	return Result{Name: name, Passed: true, Detail: store.Path()}
}

// CheckEndpoint sends an unauthenticated ServerInfo call through invoker.
// Any decoded answer, a fault included, proves the catalog is reachable.
func CheckEndpoint(ctx context.Context, invoker opensubtitles.Invoker, endpoint string) Result {
	started := time.Now()
	_, err := invoker.Invoke(ctx, "ServerInfo")
	elapsed := time.Since(started).Round(time.Millisecond)

	var fault *opensubtitles.FaultError
	switch {
	case err == nil:
		return Result{Name: catalogCheckName, Passed: true, Detail: fmt.Sprintf("%s (reachable in %s)", endpoint, elapsed)}
	case errors.As(err, &fault):
		return Result{Name: catalogCheckName, Passed: true, Detail: fmt.Sprintf("%s (reachable, fault %d)", endpoint, fault.Code)}
	default:
		return Result{Name: catalogCheckName, Detail: fmt.Sprintf("%s (%s)", endpoint, summarizeEndpointError(err))}
	}
}

// summarizeEndpointError produces a human-readable summary for endpoint probe failures.
func summarizeEndpointError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "probe timed out (catalog unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "probe timed out (catalog unreachable)"
	}
	var transportErr *opensubtitles.TransportError
	if errors.As(err, &transportErr) && transportErr.Op == opensubtitles.OpStatus {
		return fmt.Sprintf("HTTP %d", transportErr.StatusCode)
	}
	return err.Error()
}
