// Package main hosts the subseek CLI entrypoint and command graph.
//
// The Cobra-based command tree fingerprints media files, asks the
// OpenSubtitles catalog for matching subtitles, and prints the answers. It
// centralizes configuration resolution, logger construction, and the session
// lock so subcommands can focus on output.
//
// Keep this package lean: the protocol, fingerprint, and cache logic live in
// internal packages.
package main
