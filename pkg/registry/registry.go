package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"
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

// Validate checks required fields, uniqueness of IDs and task types, and
// that timeouts parse as Go durations.
func (r *ActivityRegistry) Validate() error {
	if len(r.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}

	ids := make(map[string]bool)
	taskTypes := make(map[string]bool)
	for _, activity := range r.Activities {
		if activity.ID == "" {
			return fmt.Errorf("activity missing required field: ID")
		}
		if ids[activity.ID] {
			return fmt.Errorf("duplicate activity ID: %s", activity.ID)
		}
		ids[activity.ID] = true

		if activity.DisplayName == "" {
			return fmt.Errorf("activity %s missing required field: DisplayName", activity.ID)
		}
		if activity.Category == "" {
			return fmt.Errorf("activity %s missing required field: Category", activity.ID)
		}
		if activity.TaskType == "" {
			return fmt.Errorf("activity %s missing required field: TaskType", activity.ID)
		}
		if taskTypes[activity.TaskType] {
			return fmt.Errorf("duplicate task type: %s", activity.TaskType)
		}
		taskTypes[activity.TaskType] = true

		if activity.Timeout != "" {
			if _, err := time.ParseDuration(activity.Timeout); err != nil {
				return fmt.Errorf("activity %s has invalid timeout %q: %w", activity.ID, activity.Timeout, err)
			}
		}
		if activity.Retries < 0 {
			return fmt.Errorf("activity %s has negative retries", activity.ID)
		}
	}
	return nil
}

// Find returns the activity bound to taskType.
func (r *ActivityRegistry) Find(taskType string) (Activity, bool) {
	for _, a := range r.Activities {
		if a.TaskType == taskType {
			return a, true
		}
	}
	return Activity{}, false
}

// Coverage compares the task types a process actually serves with the
// registry. unregistered are served but undocumented; unserved are
// completed activities nobody polls for.
func (r *ActivityRegistry) Coverage(served []string) (unregistered, unserved []string) {
	servedSet := make(map[string]bool, len(served))
	for _, taskType := range served {
		servedSet[taskType] = true
		if _, ok := r.Find(taskType); !ok {
			unregistered = append(unregistered, taskType)
		}
	}
	for _, a := range r.Activities {
		if a.ImplementationStatus == StatusCompleted && !servedSet[a.TaskType] {
			unserved = append(unserved, a.TaskType)
		}
	}
	sort.Strings(unregistered)
	sort.Strings(unserved)
	return unregistered, unserved
}
