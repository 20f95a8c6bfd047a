package generate

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/Masterminds/semver/v3"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/tailscale/hujson"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/config.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// InstanceConfig is the primary config of a created project.
type InstanceConfig struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Created string   `json:"created"`
	Tools   []string `json:"tools,omitempty"`
}

// Issue is a single schema violation in a config document.
type Issue struct {
	Path    string // Instance location (e.g., "/version")
	Message string
	Keyword string
}

// InvalidConfigError reports a config document that parsed but does not
// satisfy the instance config schema.
type InvalidConfigError struct {
	Issues []Issue
}

func (e *InvalidConfigError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		if is.Path == "" {
			parts = append(parts, is.Message)
			continue
		}
		parts = append(parts, is.Path+": "+is.Message)
	}
	return "config does not match schema: " + strings.Join(parts, "; ")
}

func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("config.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("config.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// compile parses a config document. The template ships JSON with line and
// block comments and trailing commas; those are blanked out before the
// standard JSON that remains is loaded as a CUE value.
func compile(data []byte) (cue.Value, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return cue.Value{}, fmt.Errorf("parsing config: %w", err)
	}
	v := cuecontext.New().CompileBytes(std)
	if err := v.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("parsing config: %w", err)
	}
	return v, nil
}

// ParseConfig parses data and validates it against the instance config
// schema. Fields beyond the schema are allowed and ignored.
func ParseConfig(data []byte) (*InstanceConfig, error) {
	v, err := compile(data)
	if err != nil {
		return nil, err
	}

	jsonData, err := v.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("converting config to JSON: %w", err)
	}

	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}
	if err := schema.Validate(inst); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return nil, fmt.Errorf("unexpected validation error type: %w", err)
		}
		return nil, &InvalidConfigError{Issues: extractIssues(ve)}
	}

	var cfg InstanceConfig
	if err := json.Unmarshal(jsonData, &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

// ReadVersion returns the version declared by the config at path exactly as
// written. A missing file or unparsable document yields DefaultVersion, as
// does a version that is absent or not a semantic version.
func ReadVersion(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultVersion
	}
	v, err := compile(data)
	if err != nil {
		return DefaultVersion
	}
	raw, err := v.LookupPath(cue.ParsePath("version")).String()
	if err != nil {
		return DefaultVersion
	}
	if _, err := semver.NewVersion(raw); err != nil {
		return DefaultVersion
	}
	return raw
}

func extractIssues(ve *jsonschema.ValidationError) []Issue {
	var issues []Issue
	collectIssues(ve, &issues)
	if len(issues) == 0 {
		return []Issue{{Message: ve.Error()}}
	}
	return issues
}

func collectIssues(ve *jsonschema.ValidationError, issues *[]Issue) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collectIssues(cause, issues)
		}
		return
	}

	path := ""
	if len(ve.InstanceLocation) > 0 {
		path = "/" + strings.Join(ve.InstanceLocation, "/")
	}

	keyword, msg := "", ""
	if ve.ErrorKind != nil {
		if kw := ve.ErrorKind.KeywordPath(); len(kw) > 0 {
			keyword = kw[len(kw)-1]
		}
		msg = ve.ErrorKind.LocalizedString(printer)
	}
	if keyword == "" || keyword == "$ref" {
		return
	}

	*issues = append(*issues, Issue{Path: path, Message: msg, Keyword: keyword})
}
