// Package preflight provides readiness checks for the directories and
// external tools acbfe depends on.
//
// The CLI "acbfe doctor" command runs RunAll and CheckSystemDeps and
// prints a table of results. Directories that do not exist yet pass when
// they can be created, since the workspace and log writers create them on
// first use.
package preflight
