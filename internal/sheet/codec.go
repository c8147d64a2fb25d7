package sheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fascani/amabot/internal/domain"
)

// ParseEmbedding parses the bracketed comma-separated float format of the
// embeddings column, e.g. "[0.12, -0.03]". An empty cell means the
// embedding has not been computed and parses to nil.
func ParseEmbedding(cell string) ([]float32, error) {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return nil, nil
	}

	trimmed = strings.TrimPrefix(trimmed, "[")
	trimmed = strings.TrimSuffix(trimmed, "]")
	if strings.TrimSpace(trimmed) == "" {
		return nil, nil
	}

	parts := strings.Split(trimmed, ",")
	vector := make([]float32, 0, len(parts))
	for _, part := range parts {
		value, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return nil, domain.NewDataError(fmt.Sprintf("malformed embedding value %q", part), err)
		}
		vector = append(vector, float32(value))
	}
	return vector, nil
}

// FormatEmbedding renders a vector in the embeddings column format.
// A nil or empty vector renders as the empty cell.
func FormatEmbedding(vector []float32) string {
	if len(vector) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("[")
	for i, value := range vector {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatFloat(float64(value), 'g', -1, 32))
	}
	b.WriteString("]")
	return b.String()
}
