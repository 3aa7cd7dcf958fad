// ============================================================================
// jackc - Jack Syntax Analyzer
// ============================================================================
//
// Package:     version
// Description: Central version information for the jackc tools
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version constants
const (
	// Tool version
	Tool = "1.0.0"

	// Version of the gRPC analysis service API
	AnalyzerAPI = "1.0.0"

	// Version of the history database schema
	HistorySchema = "1.0.0"
)

// Set at build time via -ldflags "-X github.com/msto63/jackc/pkg/core/version.GitCommit=..."
var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "analyzer-api", "grpc":
		return AnalyzerAPI
	case "history", "store":
		return HistorySchema
	default:
		return Tool
	}
}

// Info returns a one-line description of the build.
func Info() string {
	return fmt.Sprintf("jackc %s (commit %s, built %s, %s %s/%s)",
		Tool, GitCommit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
