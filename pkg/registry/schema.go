package registry

// ActivityRegistry is the on-disk catalogue of job workers, one Activity per task type.
type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

// Activity describes one worker. InputSchema and OutputSchema are JSON
// schemas matching the job variables the worker reads and writes.
type Activity struct {
	ID                   string                 `json:"id"`
	DisplayName          string                 `json:"displayName"`
	Description          string                 `json:"description"`
	Category             string                 `json:"category"`
	Version              string                 `json:"version"`
	TaskType             string                 `json:"taskType"`
	ImplementationStatus string                 `json:"implementationStatus"`
	InputSchema          map[string]interface{} `json:"inputSchema"`
	OutputSchema         map[string]interface{} `json:"outputSchema"`
	ErrorCodes           []string               `json:"errorCodes"`
	Timeout              string                 `json:"timeout"`
	Retries              int                    `json:"retries"`
	Workflows            []string               `json:"workflows,omitempty"`
	Tags                 []string               `json:"tags,omitempty"`
}

// RequiredInputs lists the input variables the schema marks as required.
func (a Activity) RequiredInputs() map[string]bool {
	required := map[string]bool{}
	list, _ := a.InputSchema["required"].([]interface{})
	for _, r := range list {
		if s, ok := r.(string); ok {
			required[s] = true
		}
	}
	return required
}
