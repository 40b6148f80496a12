package answer

import (
	"fmt"
	"strings"

	"github.com/toth-cloud/toth/internal/domain"
)

// AssembleContext formats scored candidates, in the given order, into
// the context block fed to the generation prompt. One block per
// candidate, blank line between blocks. An empty input produces the
// fixed not-found sentinel: callers treat that as a terminal response,
// not as an error.
func AssembleContext(candidates []domain.ScoredCandidate) string {
	if len(candidates) == 0 {
		return domain.MsgNotFound
	}

	blocks := make([]string, 0, len(candidates))
	for _, c := range candidates {
		doc := c.Document
		blocks = append(blocks, fmt.Sprintf(
			"Content: %s\nผู้สอน: %s (%s)\nเวลาที่สอน/บันทึก: %s %s",
			doc.Content,
			doc.TeacherName,
			domain.SubjectName(doc.TeacherSubject),
			doc.CreatedAt,
			doc.TimeOfRecord,
		))
	}
	return strings.Join(blocks, "\n\n")
}
