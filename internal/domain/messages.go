package domain

import "errors"

// Fixed user-facing phrases. These are product copy, carried verbatim:
// callers compare against them, so they must never be reworded casually.
const (
	// MsgSystemOff is returned while the operator has the system toggled off.
	MsgSystemOff = "ระบบอยู่ระหว่างการปรับปรุง กรุณาลองใหม่ภายหลังหรือติดต่อฝ่ายผู้ดูแลระบบ"
	// MsgSystemUnknown is returned when the availability row is missing or unrecognized.
	MsgSystemUnknown = "ระบบไม่พร้อมใช้งาน กรุณาลองใหม่ภายหลังหรือติดต่อฝ่ายผู้ดูแลระบบ"
	// MsgNotFound is the terminal no-relevant-information response. It is
	// both the empty-context sentinel and the refusal phrase the model is
	// instructed to use.
	MsgNotFound = "ไม่พบข้อมูลที่เกี่ยวข้อง"
	// MsgGenerationFailed is returned on any generation transport failure.
	MsgGenerationFailed = "เกิดข้อผิดพลาดในการเรียกใช้บริการ AI"
	// MsgGenerationUnparsable is returned when the provider answered but the
	// response body could not be interpreted.
	MsgGenerationUnparsable = "ไม่สามารถประมวลผลคำตอบได้"
)

// UserMessage maps a domain error to its fixed outward-facing phrase.
// Unknown errors fall back to the generic failure phrase so raw error
// text never leaks to a caller.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSystemOff):
		return MsgSystemOff
	case errors.Is(err, ErrSystemUnknown):
		return MsgSystemUnknown
	case errors.Is(err, ErrNoDocuments):
		return MsgNotFound
	case errors.Is(err, ErrGenerationParse), errors.Is(err, ErrQuizParse):
		return MsgGenerationUnparsable
	default:
		return MsgGenerationFailed
	}
}
