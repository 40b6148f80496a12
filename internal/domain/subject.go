package domain

// subjectNames maps short subject codes to their Thai display names.
// A plain finite map: unknown codes pass through unchanged.
var subjectNames = map[string]string{
	"math":      "คณิตศาสตร์",
	"science":   "วิทยาศาสตร์",
	"biology":   "ชีววิทยา",
	"chemistry": "เคมี",
	"physics":   "ฟิสิกส์",
	"english":   "ภาษาอังกฤษ",
	"thai":      "ภาษาไทย",
	"social":    "สังคมศึกษา",
	"history":   "ประวัติศาสตร์",
}

// SubjectName returns the display name for a subject code, or the code
// itself when it is not in the vocabulary.
func SubjectName(code string) string {
	if name, ok := subjectNames[code]; ok {
		return name
	}
	return code
}
