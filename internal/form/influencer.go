// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"strings"

	"github.com/olegiv/ocms-desk/internal/gateway"
	"github.com/olegiv/ocms-desk/internal/model"
)

// InfluencerForm is the create/edit form of an influencer profile.
type InfluencerForm struct {
	Name     string
	Desc     string
	Keywords string // comma separated

	// Pic is required when creating; nil keeps the stored picture on edit.
	Pic *Attachment
}

// PrefillInfluencer builds an edit form from an existing profile.
func PrefillInfluencer(i model.Influencer) *InfluencerForm {
	return &InfluencerForm{
		Name:     i.Name,
		Desc:     i.Desc,
		Keywords: strings.Join(i.Keywords, ", "),
	}
}

// KeywordList splits Keywords on commas, dropping blanks.
func (f *InfluencerForm) KeywordList() []string {
	var out []string
	for _, k := range strings.Split(f.Keywords, ",") {
		if k = clean(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// Validate checks every field and returns all failures.
func (f *InfluencerForm) Validate(mode Mode) Errors {
	errs := Errors{}
	errs.set("name", required(f.Name, "Name is required"))
	errs.set("desc", required(f.Desc, "Description is required"))

	if f.Pic == nil {
		if mode == ModeCreate {
			errs.set("pic", "Please add a picture for a new influencer")
		}
	} else {
		errs.set("pic", ValidateImage(*f.Pic))
	}
	return errs
}

// Payload returns the multipart submission.
func (f *InfluencerForm) Payload() *gateway.Payload {
	p := gateway.NewPayload()
	addText(p, "name", f.Name)
	addText(p, "desc", f.Desc)
	p.Add("keywords", strings.Join(f.KeywordList(), ","))
	if f.Pic != nil {
		p.AddFile(f.Pic.file("pic"))
	}
	return p
}
