package form

import (
	"github.com/olegiv/ocms-desk/internal/gateway"
	"github.com/olegiv/ocms-desk/internal/model"
)

// FAQForm is the create/edit form of a FAQ entry. It is submitted as JSON.
type FAQForm struct {
	Question string
	Answer   string
}

// PrefillFAQ builds an edit form from an existing entry.
func PrefillFAQ(f model.FAQ) *FAQForm {
	return &FAQForm{Question: f.Question, Answer: f.Answer}
}

// Validate checks every field and returns all failures.
func (f *FAQForm) Validate(Mode) Errors {
	errs := Errors{}
	errs.set("question", required(f.Question, "Question is required"))
	errs.set("answer", required(f.Answer, "Answer is required"))
	return errs
}

// Payload returns the JSON submission.
func (f *FAQForm) Payload() *gateway.Payload {
	p := gateway.NewJSONPayload()
	addText(p, "question", f.Question)
	addText(p, "answer", f.Answer)
	return p
}
