package generate

import (
	"encoding/json"
	"sort"
	"strings"
)

// Placeholder keys recognized in templates.
const (
	KeyName    = "name"
	KeyVersion = "version"
	KeyCreated = "created"
	KeyTools   = "tools"
)

// Placeholder returns the token for key, e.g. "{{name}}".
func Placeholder(key string) string {
	return "{{" + key + "}}"
}

// Substitute replaces every {{key}} token in text with its value. Unknown
// tokens are left as they are.
func Substitute(text string, values map[string]string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, Placeholder(k), values[k])
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// Values returns the placeholder values for cfg. Tools render as a JSON array
// so "tools": {{tools}} stays valid in a config template.
func (c InstanceConfig) Values() map[string]string {
	tools := c.Tools
	if tools == nil {
		tools = []string{}
	}
	toolsJSON, _ := json.Marshal(tools)

	return map[string]string{
		KeyName:    c.Name,
		KeyVersion: c.Version,
		KeyCreated: c.Created,
		KeyTools:   string(toolsJSON),
	}
}
