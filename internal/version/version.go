// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version provides build-time version information.
package version

import "runtime/debug"

// Info contains build-time version information injected via ldflags.
type Info struct {
	Version   string `json:"version"`    // Semantic version from git tags (e.g., "v1.2.3")
	GitCommit string `json:"git_commit"` // Short git commit hash (e.g., "abc1234")
	BuildTime string `json:"build_time"` // Build timestamp in RFC3339 format
	GoVersion string `json:"go_version"`
}

// Resolve fills empty fields: the version defaults to "dev" and the commit
// falls back to the VCS revision recorded by the Go toolchain.
func (i Info) Resolve() Info {
	if i.Version == "" {
		i.Version = "dev"
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return i
	}
	i.GoVersion = bi.GoVersion
	if i.GitCommit == "" {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 7 {
				i.GitCommit = s.Value[:7]
			}
		}
	}
	return i
}
