package preflight

import (
	"context"
	"path/filepath"

	"acbfe/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes the filesystem checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	var results []Result
	results = append(results, CheckCreatableDir("Workspace directory", cfg.Workspace.BaseDir))
	if cfg.Workspace.Tmpfs {
		results = append(results, CheckDirectoryAccess("Tmpfs directory", cfg.Workspace.TmpfsDir))
	}
	if cfg.Logging.Dir != "" {
		results = append(results, CheckCreatableDir("Log directory", cfg.Logging.Dir))
	}
	if cfg.Library.DBPath != "" {
		results = append(results, CheckCreatableDir("Library directory", filepath.Dir(cfg.Library.DBPath)))
	}
	if ctx.Err() != nil {
		results = append(results, Result{Name: "Preflight", Detail: "cancelled"})
	}
	return results
}
