package cleaner

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeFromFile(t *testing.T) {
	tests := []struct {
		file  string
		name  string
		chain string
	}{
		{
			file:  "recipe.yaml",
			name:  "tidy survey",
			chain: "chain(dedupe->normalize->fill(age=median)->drop(email)->fill-all(mean, fallback=mode))",
		},
		{
			file:  "recipe.json",
			name:  "minimal",
			chain: "chain(dedupe->fill(score=mean))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			r, err := RecipeFromFile(filepath.Join("testdata", tt.file))
			require.NoError(t, err)
			assert.Equal(t, tt.name, r.Name)

			chain, err := r.Build()
			require.NoError(t, err)
			assert.Equal(t, tt.chain, chain.Name())
		})
	}
}

func TestRecipeFromFile_Errors(t *testing.T) {
	_, err := RecipeFromFile(filepath.Join("testdata", "recipe_bad.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid recipe")
	assert.Contains(t, err.Error(), "Column")
	assert.Contains(t, err.Error(), "Action")

	_, err = RecipeFromFile(filepath.Join("testdata", "missing.yaml"))
	require.Error(t, err)

	_, err = RecipeFromFile(filepath.Join("testdata", "recipe.toml"))
	require.Error(t, err)
}

func TestRecipe_Validate(t *testing.T) {
	tests := []struct {
		name    string
		recipe  Recipe
		wantErr string
	}{
		{
			name:    "no_steps",
			recipe:  Recipe{Name: "empty"},
			wantErr: "Steps",
		},
		{
			name:    "drop_without_column",
			recipe:  Recipe{Steps: []StepConfig{{Action: ActionDrop}}},
			wantErr: "Column",
		},
		{
			name:    "fill_all_without_strategy",
			recipe:  Recipe{Steps: []StepConfig{{Action: ActionFillAll}}},
			wantErr: "Strategy",
		},
		{
			name:    "bad_strategy",
			recipe:  Recipe{Steps: []StepConfig{{Action: ActionFill, Column: "a", Strategy: "sum"}}},
			wantErr: "step 1",
		},
		{
			name:    "bad_fallback",
			recipe:  Recipe{Steps: []StepConfig{{Action: ActionFillAll, Strategy: "mean", Fallback: "max"}}},
			wantErr: "fallback",
		},
		{
			name:   "valid",
			recipe: Recipe{Steps: []StepConfig{{Action: ActionDedupe}, {Action: ActionDrop, Column: "a"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.recipe.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRecipeFromYAML_ParseError(t *testing.T) {
	_, err := RecipeFromYAML([]byte("steps: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML recipe")
}
