// Package pathtemplate expands export path templates such as
// "{sequence}/{shot}/plates/{track}/{shot}_{track}_{version}.%04d.{ext}".
//
// Frame placeholders are left untouched; they are expanded per frame by
// package framepath.
package pathtemplate

import (
	"fmt"
	"path"
	"strings"

	"shotexport/internal/services"
)

// Tokens holds the values available to a template.
type Tokens struct {
	Project  string
	Sequence string
	Shot     string
	Track    string
	Version  string
	Ext      string
}

// Resolver expands a template into a relative export path.
type Resolver interface {
	Resolve(tokens Tokens, template string) (string, error)
}

// Braces is the default resolver for {token} templates.
type Braces struct{}

// Resolve implements Resolver.
func (Braces) Resolve(tokens Tokens, template string) (string, error) {
	if strings.TrimSpace(template) == "" {
		return "", services.Wrap(services.ErrValidation, "pathtemplate", "resolve", "template is empty", nil)
	}
	values := map[string]string{
		"project":  tokens.Project,
		"sequence": tokens.Sequence,
		"shot":     tokens.Shot,
		"track":    strings.ReplaceAll(tokens.Track, " ", "_"),
		"version":  tokens.Version,
		"ext":      strings.TrimPrefix(tokens.Ext, "."),
	}

	var b strings.Builder
	rest := template
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			break
		}
		closing := strings.IndexByte(rest[open:], '}')
		if closing < 0 {
			return "", services.Wrap(services.ErrValidation, "pathtemplate", "resolve",
				fmt.Sprintf("unterminated token in template %q", template), nil)
		}
		name := rest[open+1 : open+closing]
		value, ok := values[name]
		if !ok {
			return "", services.Wrap(services.ErrValidation, "pathtemplate", "resolve",
				fmt.Sprintf("unknown token {%s} in template %q", name, template), nil)
		}
		b.WriteString(rest[:open])
		b.WriteString(value)
		rest = rest[open+closing+1:]
	}

	resolved := strings.ReplaceAll(b.String(), "\\", "/")
	return path.Clean(resolved), nil
}

// Ext returns the extension of a media file pattern without the dot.
func Ext(pattern string) string {
	return strings.TrimPrefix(path.Ext(strings.ReplaceAll(pattern, "\\", "/")), ".")
}
