package render

import (
	"encoding/json"

	"github.com/multimediallc/revdiff/pkg/revdiff"
)

// JSON renders the result for automated consumers, keeping file order.
func JSON(result *revdiff.DiffResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}
