// worker-generator scaffolds a worker package from its activity registry entry.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"guard-matching/pkg/registry"
)

type field struct {
	Name    string
	Type    string
	Tag     string
	Comment string
}

type workerData struct {
	PackageName   string
	TaskType      string
	DisplayName   string
	Description   string
	Timeout       string
	InputFields   []field
	OutputFields  []field
	RequiredCheck []field
}

func main() {
	registryPath := flag.String("registry", "configs/activity-registry.json", "activity registry")
	taskType := flag.String("task", "", "task type to scaffold")
	outDir := flag.String("out", "internal/workers", "root of the worker packages")
	force := flag.Bool("force", false, "overwrite existing files")
	flag.Parse()

	if *taskType == "" {
		fmt.Fprintln(os.Stderr, "usage: worker-generator -task <task-type> [-registry path] [-out dir] [-force]")
		os.Exit(2)
	}

	reg, err := registry.LoadRegistry(*registryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load registry: %v\n", err)
		os.Exit(1)
	}
	activity, ok := reg.Lookup(*taskType)
	if !ok {
		fmt.Fprintf(os.Stderr, "task type %q is not in %s\n", *taskType, *registryPath)
		os.Exit(1)
	}

	dir := filepath.Join(*outDir, activity.Category, activity.TaskType)
	written, err := generate(activity, dir, *force)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate %s: %v\n", activity.TaskType, err)
		os.Exit(1)
	}
	for _, f := range written {
		fmt.Println("wrote", f)
	}
}

// generate renders every template into dir and returns the files written.
// Existing files are left alone unless force is set.
func generate(a registry.Activity, dir string, force bool) ([]string, error) {
	if a.Category == "" {
		return nil, fmt.Errorf("activity %s has no category", a.ID)
	}
	data := newWorkerData(a)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	var written []string
	for _, name := range []string{"config.go", "models.go", "handler.go", "handler_test.go"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil && !force {
			continue
		}
		src, err := render(templates[name], data)
		if err != nil {
			return written, fmt.Errorf("%s: %w", name, err)
		}
		if err := os.WriteFile(path, src, 0o644); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func render(tmpl *template.Template, data workerData) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return format.Source(buf.Bytes())
}

func newWorkerData(a registry.Activity) workerData {
	timeout := "30 * time.Second"
	if d, err := parseTimeout(a.Timeout); err == nil {
		timeout = d
	}

	data := workerData{
		PackageName:  packageName(a.TaskType),
		TaskType:     a.TaskType,
		DisplayName:  a.DisplayName,
		Description:  a.Description,
		Timeout:      timeout,
		InputFields:  schemaFields(a.InputSchema),
		OutputFields: schemaFields(a.OutputSchema),
	}

	required := a.RequiredInputs()
	for _, f := range data.InputFields {
		if f.Type == "string" && required[jsonName(f.Tag)] {
			data.RequiredCheck = append(data.RequiredCheck, f)
		}
	}
	return data
}

func packageName(taskType string) string {
	return strings.ReplaceAll(taskType, "-", "")
}

// parseTimeout turns a registry timeout such as "10s" or "2m" into a Go expression.
func parseTimeout(s string) (string, error) {
	for suffix, unit := range map[string]string{"ms": "time.Millisecond", "s": "time.Second", "m": "time.Minute"} {
		n := strings.TrimSuffix(s, suffix)
		if n == s || n == "" || strings.Trim(n, "0123456789") != "" {
			continue
		}
		return n + " * " + unit, nil
	}
	return "", fmt.Errorf("unsupported timeout %q", s)
}

func schemaFields(schema map[string]interface{}) []field {
	props, _ := schema["properties"].(map[string]interface{})
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]field, 0, len(names))
	for _, name := range names {
		details, ok := props[name].(map[string]interface{})
		if !ok {
			continue
		}
		f := field{
			Name: goName(name),
			Type: goType(details),
			Tag:  fmt.Sprintf("`json:\"%s,omitempty\"`", name),
		}
		if desc, ok := details["description"].(string); ok {
			f.Comment = desc
		}
		fields = append(fields, f)
	}
	return fields
}

func goType(details map[string]interface{}) string {
	switch details["type"] {
	case "string":
		return "string"
	case "integer":
		return "int"
	case "number":
		return "float64"
	case "boolean":
		return "bool"
	case "array":
		if items, ok := details["items"].(map[string]interface{}); ok {
			return "[]" + goType(items)
		}
		return "[]interface{}"
	case "object":
		return "map[string]interface{}"
	default:
		return "interface{}"
	}
}

// goName exports a camelCase JSON name, upper-casing a trailing Id.
func goName(name string) string {
	if name == "" {
		return name
	}
	n := strings.ToUpper(name[:1]) + name[1:]
	if strings.HasSuffix(n, "Id") {
		n = strings.TrimSuffix(n, "Id") + "ID"
	}
	return n
}

func jsonName(tag string) string {
	tag = strings.TrimPrefix(tag, "`json:\"")
	if i := strings.IndexAny(tag, ",\""); i >= 0 {
		return tag[:i]
	}
	return tag
}

var templates = map[string]*template.Template{
	"config.go":       template.Must(template.New("config").Parse(configTemplate)),
	"models.go":       template.Must(template.New("models").Parse(modelsTemplate)),
	"handler.go":      template.Must(template.New("handler").Parse(handlerTemplate)),
	"handler_test.go": template.Must(template.New("test").Parse(testTemplate)),
}

const configTemplate = `package {{ .PackageName }}

import (
	"time"

	"guard-matching/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(wc config.WorkerConfig) *Config {
	cfg := &Config{Timeout: {{ .Timeout }}}
	if wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	return cfg
}
`

const modelsTemplate = `package {{ .PackageName }}
{{ if .RequiredCheck }}
import "fmt"
{{ end }}
type Input struct {
{{- range .InputFields }}
	{{ .Name }} {{ .Type }} {{ .Tag }}{{ if .Comment }} // {{ .Comment }}{{ end }}
{{- end }}
}
{{ if .RequiredCheck }}
func (i Input) Validate() error {
{{- range .RequiredCheck }}
	if i.{{ .Name }} == "" {
		return fmt.Errorf("{{ .Name }} is required")
	}
{{- end }}
	return nil
}
{{ else }}
func (i Input) Validate() error { return nil }
{{ end }}
type Output struct {
{{- range .OutputFields }}
	{{ .Name }} {{ .Type }} {{ .Tag }}{{ if .Comment }} // {{ .Comment }}{{ end }}
{{- end }}
}
`

const handlerTemplate = `package {{ .PackageName }}

import (
	"context"

	"guard-matching/internal/common/camunda"
	"guard-matching/internal/common/errors"
	"guard-matching/internal/common/logger"
	"guard-matching/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "{{ .TaskType }}"

// Service does the work behind {{ .DisplayName }}.
type Service interface {
	Run(ctx context.Context, input *Input) (*Output, error)
}

type Handler struct {
	config     *Config
	service    Service
	validator  *validation.Validator
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, service Service, validator *validation.Validator, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		service:    service,
		validator:  validator,
		errHandler: errors.NewErrorHandler(l),
		logger:     l,
	}
}

func (h *Handler) Handle(ctx context.Context, client worker.JobClient, job entities.Job) error {
	h.logger.WithContext(ctx).Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := h.validator.Decode(TaskType, job.Variables, &input); err != nil {
		h.errHandler.HandleJobError(ctx, client, job, err)
		return err
	}

	execCtx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	output, err := h.execute(execCtx, &input)
	if err != nil {
		h.errHandler.HandleJobError(ctx, client, job, err)
		return err
	}
	return camunda.CompleteJob(ctx, client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := input.Validate(); err != nil {
		return nil, errors.NewInputValidationFailedError(err.Error())
	}
	return h.service.Run(ctx, input)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
`

const testTemplate = `package {{ .PackageName }}

import (
	"context"
	"testing"

	"guard-matching/internal/common/config"
	"guard-matching/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct{}

func (stubService) Run(context.Context, *Input) (*Output, error) { return &Output{}, nil }

func TestHandler_Execute(t *testing.T) {
	h := NewHandler(LoadConfig(config.WorkerConfig{}), stubService{}, nil, logger.NewTestLogger(t))
{{ if .RequiredCheck }}
	_, err := h.Execute(context.Background(), &Input{})
	assert.Error(t, err)
{{ end }}
	out, err := h.Execute(context.Background(), &Input{
{{- range .RequiredCheck }}
		{{ .Name }}: "x",
{{- end }}
	})
	require.NoError(t, err)
	assert.NotNil(t, out)
}
`
