package validator

import (
	"path"
	"strings"
)

// CleanFileName drops any directory part of a client-supplied file name and keeps the rest verbatim.
// Browsers on Windows may send full paths with backslashes.
func CleanFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == ".." || name == "/" {
		return ""
	}

	return name
}
