// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"consultancy-workers/pkg/registry"
)

const defaultRegistryPath = "configs/activity-registry.json"

func main() {
	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	if err := run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(command string, args []string) error {
	switch command {
	case "add":
		fs := flag.NewFlagSet("add", flag.ContinueOnError)
		path := fs.String("path", defaultRegistryPath, "Path to registry file")
		id := fs.String("id", "", "Activity ID (e.g., compute-savings)")
		displayName := fs.String("displayName", "", "Display Name (e.g., Compute Savings)")
		description := fs.String("description", "", "Description")
		category := fs.String("category", "", "Category (e.g., consultancy)")
		taskType := fs.String("taskType", "", "Zeebe task type (e.g., compute-savings)")
		version := fs.String("version", "1.0.0", "Version")
		status := fs.String("status", "planned", "Implementation Status (planned, in-progress, completed, verified)")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *id == "" || *displayName == "" || *description == "" || *category == "" || *taskType == "" {
			fs.Usage()
			return fmt.Errorf("id, displayName, description, category, and taskType are required for add")
		}
		if err := checkStatus(*status); err != nil {
			return err
		}
		if err := addActivity(*path, registry.Activity{
			ID:                   *id,
			DisplayName:          *displayName,
			Description:          *description,
			Category:             *category,
			Version:              *version,
			TaskType:             *taskType,
			ImplementationStatus: *status,
			InputSchema:          map[string]interface{}{},
			OutputSchema:         map[string]interface{}{},
			ErrorCodes:           []string{},
			Timeout:              "5s",
			Workflows:            []string{},
			Tags:                 []string{},
		}); err != nil {
			return fmt.Errorf("adding activity: %w", err)
		}
		fmt.Printf("Added activity: %s\n", *id)

	case "update":
		fs := flag.NewFlagSet("update", flag.ContinueOnError)
		path := fs.String("path", defaultRegistryPath, "Path to registry file")
		id := fs.String("id", "", "Activity ID to update")
		field := fs.String("field", "", "Field to update (status, version, etc.)")
		value := fs.String("value", "", "New value for the field")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *id == "" || *field == "" || *value == "" {
			fs.Usage()
			return fmt.Errorf("id, field, and value are required for update")
		}
		if err := updateActivity(*path, *id, *field, *value); err != nil {
			return fmt.Errorf("updating activity: %w", err)
		}
		fmt.Printf("Updated activity %s, field %s to %s\n", *id, *field, *value)

	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		path := fs.String("path", defaultRegistryPath, "Path to registry file")
		if err := fs.Parse(args); err != nil {
			return err
		}
		n, err := validateRegistry(*path)
		if err != nil {
			return fmt.Errorf("registry validation failed: %w", err)
		}
		fmt.Printf("Registry validation passed. Found %d activities.\n", n)

	default:
		help()
	}
	return nil
}

func addActivity(path string, activity registry.Activity) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		reg = registry.New()
	}

	if err := reg.Add(activity); err != nil {
		return err
	}
	return reg.Save(path)
}

func updateActivity(path, id, field, value string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	a, ok := reg.FindByID(id)
	if !ok {
		return fmt.Errorf("activity with ID %s not found", id)
	}

	switch field {
	case "status":
		if err := checkStatus(value); err != nil {
			return err
		}
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
		if other, ok := reg.Find(value); ok && other.ID != id {
			return fmt.Errorf("task type %s is already registered to %s", value, other.ID)
		}
		a.TaskType = value
	case "timeout":
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

	reg.Touch()
	return reg.Save(path)
}

func validateRegistry(path string) (int, error) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return 0, fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return 0, err
	}
	return len(reg.Activities), nil
}

func checkStatus(status string) error {
	for _, s := range registry.ImplementationStatuses {
		if s == status {
			return nil
		}
	}
	return fmt.Errorf("invalid status %q, want one of %v", status, registry.ImplementationStatuses)
}

func help() {
	fmt.Print(`
Usage: registry-updater <command> [flags]

Commands:
  add      Add a new activity to the registry
  update   Update an existing activity's field
  validate Validate the registry file and its JSON schemas
  help     Show this help message

Examples:
  registry-updater add -id compute-savings -displayName "Compute Savings" -description "Derives hours saved for a business type" -category consultancy -taskType compute-savings
  registry-updater update -id compute-savings -field status -value completed
  registry-updater validate -path configs/activity-registry.json

Use 'registry-updater <command> -h' for more information about a command.

`)
}
