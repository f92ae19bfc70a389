// Package library holds the exercise catalog: metadata describing each
// exercise the analysis engine knows, served to clients over HTTP and MCP.
package library

import (
	"sort"
	"strings"
)

// Exercise is one catalog entry. Analysis behavior lives in the analysis
// registry; this is the descriptive metadata shown to users.
type Exercise struct {
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	Description     string   `json:"description"`
	Instructions    []string `json:"instructions"`
	TargetMuscles   []string `json:"target_muscles"`
	DifficultyLevel string   `json:"difficulty_level"`
	EquipmentNeeded []string `json:"equipment_needed"`
	KeyLandmarks    []string `json:"key_landmarks"`
}

// Library is an in-memory exercise catalog keyed by lowercase name.
type Library struct {
	exercises map[string]Exercise
	order     []string
}

// New returns a library seeded with the default exercises.
func New() *Library {
	l := &Library{exercises: make(map[string]Exercise)}
	for _, ex := range defaultExercises() {
		l.Add(ex)
	}
	return l
}

// Add inserts or replaces an exercise. Lookup is case-insensitive.
func (l *Library) Add(ex Exercise) {
	key := strings.ToLower(ex.Name)
	if _, exists := l.exercises[key]; !exists {
		l.order = append(l.order, key)
	}
	l.exercises[key] = ex
}

// Get returns the exercise for a name, case-insensitively.
func (l *Library) Get(name string) (Exercise, bool) {
	ex, ok := l.exercises[strings.ToLower(name)]
	return ex, ok
}

// All returns every exercise in registration order.
func (l *Library) All() []Exercise {
	out := make([]Exercise, 0, len(l.order))
	for _, key := range l.order {
		out = append(out, l.exercises[key])
	}
	return out
}

// ByCategory returns the exercises in a category.
func (l *Library) ByCategory(category string) []Exercise {
	var out []Exercise
	for _, ex := range l.All() {
		if strings.EqualFold(ex.Category, category) {
			out = append(out, ex)
		}
	}
	return out
}

// ByDifficulty returns the exercises at a difficulty level.
func (l *Library) ByDifficulty(level string) []Exercise {
	var out []Exercise
	for _, ex := range l.All() {
		if strings.EqualFold(ex.DifficultyLevel, level) {
			out = append(out, ex)
		}
	}
	return out
}

// Search matches the query against name, description and target muscles.
func (l *Library) Search(query string) []Exercise {
	q := strings.ToLower(query)
	var out []Exercise
	for _, ex := range l.All() {
		if strings.Contains(strings.ToLower(ex.Name), q) ||
			strings.Contains(strings.ToLower(ex.Description), q) ||
			muscleMatch(ex.TargetMuscles, q) {
			out = append(out, ex)
		}
	}
	return out
}

func muscleMatch(muscles []string, q string) bool {
	for _, m := range muscles {
		if strings.Contains(strings.ToLower(m), q) {
			return true
		}
	}
	return false
}

// Categories returns the sorted set of categories present in the catalog.
func (l *Library) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, ex := range l.All() {
		if !seen[ex.Category] {
			seen[ex.Category] = true
			out = append(out, ex.Category)
		}
	}
	sort.Strings(out)
	return out
}

// DifficultyLevels returns the supported difficulty levels.
func (l *Library) DifficultyLevels() []string {
	return []string{"beginner", "intermediate", "advanced"}
}
