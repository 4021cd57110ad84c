package prompt

import "regexp"

var variablePattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// render replaces {{variable}} placeholders with values from vars.
// Unknown placeholders are left untouched; the templates in this
// package only use variables the builders always supply.
func render(template string, vars map[string]string) string {
	return variablePattern.ReplaceAllStringFunc(template, func(match string) string {
		key := match[2 : len(match)-2]
		if val, ok := vars[key]; ok {
			return val
		}
		return match
	})
}
