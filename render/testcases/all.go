package testcases

// All contains all test cases, grouped by category.
var All = map[string][]TestCase{
	"fill":      fillCases,
	"transform": transformCases,
	"large":     largeCases,
	"subpath":   subpathCases,
	"precision": precisionCases,
}
