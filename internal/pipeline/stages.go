package pipeline

import "fmt"

// Build stage names, in execution order.
const (
	StageClean    = "clean"
	StageCopy     = "copy_assets"
	StageContent  = "emit_content"
	StageBundle   = "bundle"
	StageVerify   = "verify"
	StageManifest = "manifest"
)

// Stage categories group progress events.
const (
	CategoryPrepare = "prepare"
	CategoryOutput  = "output"
	CategoryCheck   = "check"
)

// StageDefinition defines metadata for a build stage
type StageDefinition struct {
	Name         string
	Category     string
	Dependencies []string
}

// Stages lists every build stage in the order Build runs them.
var Stages = []StageDefinition{
	{Name: StageClean, Category: CategoryPrepare},
	{Name: StageCopy, Category: CategoryOutput, Dependencies: []string{StageClean}},
	{Name: StageContent, Category: CategoryOutput, Dependencies: []string{StageClean}},
	{Name: StageBundle, Category: CategoryOutput, Dependencies: []string{StageContent}},
	{Name: StageVerify, Category: CategoryCheck, Dependencies: []string{StageCopy, StageContent, StageBundle}},
	{Name: StageManifest, Category: CategoryOutput, Dependencies: []string{StageVerify}},
}

// DependencyError represents a stage ordered before something it depends on
type DependencyError struct {
	Stage               string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("stage %s runs before its dependencies: %v", e.Stage, e.MissingDependencies)
}

// ValidateOrder checks that every stage's dependencies run before it.
func ValidateOrder(stages []StageDefinition) error {
	seen := make(map[string]bool, len(stages))
	for _, stage := range stages {
		if seen[stage.Name] {
			return fmt.Errorf("duplicate stage: %s", stage.Name)
		}
		var missing []string
		for _, dep := range stage.Dependencies {
			if !seen[dep] {
				missing = append(missing, dep)
			}
		}
		if len(missing) > 0 {
			return &DependencyError{Stage: stage.Name, MissingDependencies: missing}
		}
		seen[stage.Name] = true
	}
	return nil
}

// stageNumber returns the 1-based position of a stage and the stage count.
func stageNumber(name string) (int, int) {
	for i, stage := range Stages {
		if stage.Name == name {
			return i + 1, len(Stages)
		}
	}
	return 0, len(Stages)
}

// stageCategory returns the category of a stage.
func stageCategory(name string) string {
	for _, stage := range Stages {
		if stage.Name == name {
			return stage.Category
		}
	}
	return ""
}
