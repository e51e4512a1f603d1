package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"guard-matching/internal/common/validation"
	"guard-matching/pkg/registry"
)

const defaultRegistryPath = "configs/activity-registry.json"

func main() {
	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	addPath := addCmd.String("path", defaultRegistryPath, "Path to registry file")
	idAdd := addCmd.String("id", "", "Activity ID (e.g., scheduling.slot.book)")
	displayName := addCmd.String("displayName", "", "Display Name (e.g., Book Guard Slot)")
	description := addCmd.String("description", "", "Description")
	category := addCmd.String("category", "", "Category (e.g., scheduling)")
	taskType := addCmd.String("taskType", "", "Camunda Task Type (e.g., book-guard-slot)")
	version := addCmd.String("version", "1.0.0", "Version")
	implStatus := addCmd.String("status", "planned", "Implementation Status (planned, in-progress, completed, verified)")

	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	updatePath := updateCmd.String("path", defaultRegistryPath, "Path to registry file")
	idUpdate := updateCmd.String("id", "", "Activity ID to update")
	field := updateCmd.String("field", "", "Field to update (status, version, etc.)")
	value := updateCmd.String("value", "", "New value for the field")

	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	validatePath := validateCmd.String("path", defaultRegistryPath, "Path to registry file")

	switch os.Args[1] {
	case "add":
		_ = addCmd.Parse(os.Args[2:])
		if *idAdd == "" || *displayName == "" || *description == "" || *category == "" || *taskType == "" {
			fmt.Println("Error: id, displayName, description, category, and taskType are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		activity := registry.Activity{
			ID:                   *idAdd,
			DisplayName:          *displayName,
			Description:          *description,
			Category:             *category,
			Version:              *version,
			TaskType:             *taskType,
			ImplementationStatus: *implStatus,
			InputSchema:          map[string]interface{}{},
			OutputSchema:         map[string]interface{}{},
			ErrorCodes:           []string{},
			Timeout:              "10s",
		}
		if err := addActivity(*addPath, activity); err != nil {
			fmt.Printf("Error adding activity: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added activity: %s\n", *idAdd)

	case "update":
		_ = updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateActivity(*updatePath, *idUpdate, *field, *value); err != nil {
			fmt.Printf("Error updating activity: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated activity %s, field %s to %s\n", *idUpdate, *field, *value)

	case "validate":
		_ = validateCmd.Parse(os.Args[2:])
		n, err := validateRegistry(*validatePath)
		if err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Registry validation passed. Found %d activities.\n", n)

	default:
		help()
	}
}

func addActivity(path string, activity registry.Activity) error {
	if err := validation.ValidateActivityNaming(activity.ID); err != nil {
		return err
	}

	reg, err := registry.LoadRegistry(path)
	if os.IsNotExist(err) {
		reg = &registry.ActivityRegistry{Version: "1.0.0"}
	} else if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	if _, exists := findActivity(reg, activity.ID); exists {
		return fmt.Errorf("activity with ID %s already exists", activity.ID)
	}

	reg.Upsert(activity)
	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	return reg.Save(path)
}

func updateActivity(path, id, field, value string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	a, ok := findActivity(reg, id)
	if !ok {
		return fmt.Errorf("activity with ID %s not found", id)
	}

	switch field {
	case "status":
		a.ImplementationStatus = value
	case "version":
		a.Version = value
	case "displayName":
		a.DisplayName = value
	case "description":
		a.Description = value
	case "category":
		a.Category = value
	case "taskType":
		a.TaskType = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout value: %w", err)
		}
		a.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		a.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	reg.Upsert(a)
	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	return reg.Save(path)
}

// validateRegistry checks required fields, naming, uniqueness of IDs and task
// types, and that every schema compiles.
func validateRegistry(path string) (int, error) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return 0, fmt.Errorf("failed to load registry: %w", err)
	}
	if len(reg.Activities) == 0 {
		return 0, fmt.Errorf("registry contains no activities")
	}

	ids := make(map[string]bool)
	taskTypes := make(map[string]bool)
	for _, activity := range reg.Activities {
		if activity.ID == "" {
			return 0, fmt.Errorf("activity missing required field: ID")
		}
		if ids[activity.ID] {
			return 0, fmt.Errorf("duplicate activity ID: %s", activity.ID)
		}
		ids[activity.ID] = true

		if err := validation.ValidateActivityNaming(activity.ID); err != nil {
			return 0, fmt.Errorf("activity %s: %w", activity.ID, err)
		}
		if activity.DisplayName == "" {
			return 0, fmt.Errorf("activity %s missing required field: DisplayName", activity.ID)
		}
		if activity.Category == "" {
			return 0, fmt.Errorf("activity %s missing required field: Category", activity.ID)
		}
		if activity.TaskType == "" {
			return 0, fmt.Errorf("activity %s missing required field: TaskType", activity.ID)
		}
		if taskTypes[activity.TaskType] {
			return 0, fmt.Errorf("duplicate task type: %s", activity.TaskType)
		}
		taskTypes[activity.TaskType] = true

		for name, schema := range map[string]map[string]interface{}{
			"input":  activity.InputSchema,
			"output": activity.OutputSchema,
		} {
			if len(schema) == 0 {
				continue
			}
			if _, err := validation.CompileSchema(schema); err != nil {
				return 0, fmt.Errorf("activity %s %s schema: %w", activity.ID, name, err)
			}
		}
	}

	return len(reg.Activities), nil
}

func findActivity(reg *registry.ActivityRegistry, id string) (registry.Activity, bool) {
	for _, a := range reg.Activities {
		if a.ID == id {
			return a, true
		}
	}
	return registry.Activity{}, false
}

func help() {
	fmt.Println(`
Usage: registry-updater <command> [flags]

Commands:
  add      Add a new activity to the registry
  update   Update an existing activity's field
  validate Validate the registry file
  help     Show this help message

Examples:
  registry-updater add -id scheduling.slot.book -displayName "Book Guard Slot" -description "Reserves a guard slot" -category scheduling -taskType book-guard-slot
  registry-updater update -id scheduling.slot.book -field status -value completed
  registry-updater validate -path configs/activity-registry.json

Use 'registry-updater <command> -h' for more information about a command.`)
}
