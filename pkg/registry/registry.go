package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return &reg, nil
}

// Save writes the registry back with stable ordering and indentation.
func (r *ActivityRegistry) Save(path string) error {
	sort.SliceStable(r.Activities, func(i, j int) bool {
		return r.Activities[i].ID < r.Activities[j].ID
	})
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Lookup finds an activity by task type.
func (r *ActivityRegistry) Lookup(taskType string) (Activity, bool) {
	for _, a := range r.Activities {
		if a.TaskType == taskType {
			return a, true
		}
	}
	return Activity{}, false
}

// Upsert replaces the activity with the same ID or appends it, reporting
// whether an existing entry was replaced.
func (r *ActivityRegistry) Upsert(a Activity) bool {
	for i := range r.Activities {
		if r.Activities[i].ID == a.ID {
			r.Activities[i] = a
			return true
		}
	}
	r.Activities = append(r.Activities, a)
	return false
}
