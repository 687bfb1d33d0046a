// Package deps reports which of the external tools acbfe shells out to are installed.
package deps

import (
	"fmt"
	"strings"

	"acbfe/internal/config"
	"acbfe/internal/toolexec"
)

// Requirement defines an external dependency acbfe relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Path        string `json:"path,omitempty"`
	Detail      string `json:"detail,omitempty"`
}

// Requirements lists the tools configured in cfg. Every tool is optional:
// a missing one only disables the feature that needs it.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{Name: "unrar", Command: cfg.Tools.Unrar, Description: "Opens CBR archives", Optional: true},
		{Name: "7z", Command: cfg.Tools.SevenZip, Description: "Opens CB7 archives", Optional: true},
		{Name: "kumiko", Command: cfg.Tools.Kumiko, Description: "Detects panels for frame editing", Optional: true},
		{Name: "fc-list", Command: cfg.Tools.FcList, Description: "Lists installed fonts", Optional: true},
		{Name: "tesseract", Command: "tesseract", Description: "Recognises bubble text (OCR builds)", Optional: true},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		path, err := toolexec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = path
		results = append(results, status)
	}
	return results
}

// MissingRequired returns the unavailable statuses that are not optional.
func MissingRequired(statuses []Status) []Status {
	var missing []Status
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			missing = append(missing, s)
		}
	}
	return missing
}
