package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Task is one simulated unit of work driven through a progress engine.
type Task struct {
	Label string        `yaml:"label"`
	Total int64         `yaml:"total"`
	Step  int64         `yaml:"step"`
	Delay time.Duration `yaml:"delay"`
}

// TaskFile is the on-disk format of --task-file.
type TaskFile struct {
	Tasks []Task `yaml:"tasks"`
}

func (t Task) Validate() error {
	if t.Total < 0 {
		return fmt.Errorf("task %q: total must not be negative, got %d", t.Label, t.Total)
	}
	if t.Step <= 0 {
		return fmt.Errorf("task %q: step must be positive, got %d", t.Label, t.Step)
	}
	if t.Delay < 0 {
		return fmt.Errorf("task %q: delay must not be negative, got %s", t.Label, t.Delay)
	}
	return nil
}

// LoadTasks reads and validates a task file. Tasks without a step default
// to 1.
func LoadTasks(path string) ([]Task, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read task file %s: %w", path, err)
	}
	var file TaskFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("unable to parse task file %s: %w", path, err)
	}
	if len(file.Tasks) == 0 {
		return nil, fmt.Errorf("task file %s contains no tasks", path)
	}
	for i := range file.Tasks {
		if file.Tasks[i].Step == 0 {
			file.Tasks[i].Step = 1
		}
		if file.Tasks[i].Label == "" {
			file.Tasks[i].Label = fmt.Sprintf("task-%d", i+1)
		}
		if err := file.Tasks[i].Validate(); err != nil {
			return nil, err
		}
	}
	return file.Tasks, nil
}
