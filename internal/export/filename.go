package export

import (
	"mime"
	"path"
	"regexp"
	"strings"
)

var filenameRe = regexp.MustCompile(`filename\*?=(?:UTF-8'')?"?([^";]+)"?`)

// ResolveFilename takes the file name from a Content-Disposition header, falling
// back when the header is absent or unusable. Directory parts are dropped.
func ResolveFilename(contentDisposition, fallback string) string {
	name := ""
	if contentDisposition != "" {
		if _, params, err := mime.ParseMediaType(contentDisposition); err == nil {
			name = params["filename"]
		}
		if name == "" {
			if m := filenameRe.FindStringSubmatch(contentDisposition); m != nil {
				name = m[1]
			}
		}
	}

	name = strings.TrimSpace(strings.ReplaceAll(name, `\`, "/"))
	name = path.Base(name)
	if name == "" || name == "." || name == "/" || name == ".." {
		return fallback
	}
	return name
}
