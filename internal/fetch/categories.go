// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

// CategoryInfo returns human-readable names for the arXiv categories the
// pipeline searches most often.
func CategoryInfo() map[string]string {
	return map[string]string{
		"cs.AI":   "Artificial Intelligence",
		"cs.LG":   "Machine Learning",
		"cs.CL":   "Computation and Language (NLP)",
		"cs.CV":   "Computer Vision and Pattern Recognition",
		"cs.NE":   "Neural and Evolutionary Computing",
		"stat.ML": "Machine Learning (Statistics)",
		"cs.RO":   "Robotics",
		"cs.IR":   "Information Retrieval",
	}
}

// CategoryName returns the human-readable name of code, or code itself
// when it is not in the catalog.
func CategoryName(code string) string {
	if name, ok := CategoryInfo()[code]; ok {
		return name
	}
	return code
}
