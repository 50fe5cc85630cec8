package config

import (
	"fmt"
	"strings"
)

// ValidateConfig checks the loaded step list for required fields. Checks are
// presence-only: the runner accepts any HTTP verb and arbitrary param and
// header keys. All problems are collected so one failed load reports every
// missing field at once.
func ValidateConfig(cfg *Config) error {
	var allErrors []string
	if len(cfg.APIs) < 1 {
		allErrors = append(allErrors, "- apis: at least one API check is required")
	}
	for i, step := range cfg.APIs {
		allErrors = append(allErrors, validateStep(stepPrefix(i, step), &step)...)
	}
	if len(allErrors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(allErrors, "\n"))
	}
	return nil
}

func stepPrefix(index int, step Step) string {
	if step.Name != "" {
		return fmt.Sprintf("apis[%d] '%s'", index, step.Name)
	}
	return fmt.Sprintf("apis[%d]", index)
}

func validateStep(prefix string, step *Step) []string {
	var errs []string
	if step.Name == "" {
		errs = append(errs, fmt.Sprintf("- %s.name: required", prefix))
	}
	if step.URL == "" {
		errs = append(errs, fmt.Sprintf("- %s.url: required", prefix))
	}
	if step.Method == "" {
		errs = append(errs, fmt.Sprintf("- %s.method: required", prefix))
	}
	return errs
}
