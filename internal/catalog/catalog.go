// Package catalog ships a reference list of known EC2 instance shapes and
// groups them by family for display. The list is advisory: an unknown
// instance type produces a warning, never a rejection, because the pricing
// sources are the authority on what exists.
package catalog

import (
	_ "embed"
	"strings"
	"sync"
)

//go:embed instance_types.txt
var rawInstanceTypes string

// Category display order.
var CategoryNames = []string{
	"General Purpose",
	"Compute Optimized",
	"Memory Optimized",
	"Storage Optimized",
	"GPU Instances",
	"Other",
}

var (
	loadOnce  sync.Once
	types     []string
	typeIndex map[string]bool
)

func load() {
	typeIndex = make(map[string]bool)
	for _, line := range strings.Split(rawInstanceTypes, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		types = append(types, line)
		typeIndex[line] = true
	}
}

// InstanceTypes returns the embedded reference list in file order.
func InstanceTypes() []string {
	loadOnce.Do(load)
	out := make([]string, len(types))
	copy(out, types)
	return out
}

// IsKnown reports whether the instance type appears in the reference list.
func IsKnown(instanceType string) bool {
	loadOnce.Do(load)
	return typeIndex[instanceType]
}

// Categories buckets the reference list by naming convention. The rules
// are substring matches on the lowercased identifier, so "m5d.8xlarge"
// lands in General Purpose and "g5.xlarge" in GPU Instances.
func Categories() map[string][]string {
	loadOnce.Do(load)

	categories := make(map[string][]string, len(CategoryNames))
	for _, name := range CategoryNames {
		categories[name] = nil
	}

	for _, t := range types {
		category := Categorize(t)
		categories[category] = append(categories[category], t)
	}

	return categories
}

// Categorize returns the category name for a single instance type.
func Categorize(instanceType string) string {
	lower := strings.ToLower(instanceType)

	switch {
	case containsAny(lower, "gpu", "p3", "p4", "g4", "g5"):
		return "GPU Instances"
	case containsAny(lower, "c5", "c6", "c7", "compute"):
		return "Compute Optimized"
	case containsAny(lower, "r5", "r6", "r7", "x1", "x2", "memory"):
		return "Memory Optimized"
	case containsAny(lower, "d2", "d3", "h1", "i3", "storage"):
		return "Storage Optimized"
	case containsAny(lower, "m5", "m6", "m7", "t3", "t4"):
		return "General Purpose"
	default:
		return "Other"
	}
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
