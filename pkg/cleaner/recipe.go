package cleaner

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Recipe actions.
const (
	ActionDedupe    = "dedupe"
	ActionNormalize = "normalize"
	ActionFill      = "fill"
	ActionDrop      = "drop"
	ActionFillAll   = "fill-all"
)

// Recipe is a named list of cleaning steps loaded from a file.
//
// Example (YAML):
//
//	name: tidy survey
//	steps:
//	  - action: dedupe
//	  - action: normalize
//	  - action: fill
//	    column: age
//	    strategy: median
//	  - action: drop
//	    column: email
type Recipe struct {
	Name  string       `json:"name,omitempty" yaml:"name,omitempty"`
	Steps []StepConfig `json:"steps" yaml:"steps" validate:"required,min=1,dive"`
}

// StepConfig describes one recipe step.
type StepConfig struct {
	Action   string `json:"action" yaml:"action" validate:"required,oneof=dedupe normalize fill drop fill-all"`
	Column   string `json:"column,omitempty" yaml:"column,omitempty" validate:"required_if=Action fill,required_if=Action drop"`
	Strategy string `json:"strategy,omitempty" yaml:"strategy,omitempty" validate:"required_if=Action fill,required_if=Action fill-all"`
	Fallback string `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// RecipeFromFile loads a recipe from a JSON or YAML file.
func RecipeFromFile(path string) (Recipe, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- CLI tool reads the user-specified recipe
	if err != nil {
		return Recipe{}, fmt.Errorf("failed to read recipe file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return RecipeFromJSON(data)
	case ".yaml", ".yml":
		return RecipeFromYAML(data)
	default:
		return Recipe{}, fmt.Errorf("unsupported recipe file format: %s", ext)
	}
}

// RecipeFromJSON parses and validates a JSON recipe.
func RecipeFromJSON(data []byte) (Recipe, error) {
	var r Recipe
	if err := json.Unmarshal(data, &r); err != nil {
		return Recipe{}, fmt.Errorf("failed to parse JSON recipe: %w", err)
	}
	return r, r.Validate()
}

// RecipeFromYAML parses and validates a YAML recipe.
func RecipeFromYAML(data []byte) (Recipe, error) {
	var r Recipe
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Recipe{}, fmt.Errorf("failed to parse YAML recipe: %w", err)
	}
	return r, r.Validate()
}

// Validate checks the recipe structure and strategy names.
func (r Recipe) Validate() error {
	if err := validator.New().Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
			}
			return fmt.Errorf("invalid recipe: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid recipe: %w", err)
	}

	for i, sc := range r.Steps {
		if sc.Strategy != "" {
			if _, err := ParseStrategy(sc.Strategy); err != nil {
				return fmt.Errorf("invalid recipe: step %d: %w", i+1, err)
			}
		}
		if sc.Fallback != "" {
			if _, err := ParseStrategy(sc.Fallback); err != nil {
				return fmt.Errorf("invalid recipe: step %d fallback: %w", i+1, err)
			}
		}
	}
	return nil
}

// Build turns the recipe into a chain of steps.
func (r Recipe) Build() (*Chain, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	steps := make([]Step, 0, len(r.Steps))
	for _, sc := range r.Steps {
		step, err := sc.Step()
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return NewChain(steps...), nil
}

// Step converts a single step configuration.
func (sc StepConfig) Step() (Step, error) {
	var strategy, fallback Strategy
	var err error
	if sc.Strategy != "" {
		if strategy, err = ParseStrategy(sc.Strategy); err != nil {
			return nil, err
		}
	}
	if sc.Fallback != "" {
		if fallback, err = ParseStrategy(sc.Fallback); err != nil {
			return nil, err
		}
	}

	switch sc.Action {
	case ActionDedupe:
		return NewDedupe(), nil
	case ActionNormalize:
		return NewNormalize(), nil
	case ActionFill:
		return NewFill(sc.Column, strategy), nil
	case ActionDrop:
		return NewDrop(sc.Column), nil
	case ActionFillAll:
		return NewFillAll(strategy, fallback), nil
	default:
		return nil, fmt.Errorf("unknown recipe action %q", sc.Action)
	}
}
