// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "testing"

func TestParseStatusFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    StatusFilter
		wantErr bool
	}{
		{"", StatusAll, false},
		{"all", StatusAll, false},
		{"Approved", StatusApproved, false},
		{" pending ", StatusPending, false},
		{"rejected", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatusFilter(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStatusFilter(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseStatusFilter(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestReview_ImageRef(t *testing.T) {
	r := Review{}
	if r.ImageRef() != "" {
		t.Errorf("ImageRef() = %q, want empty", r.ImageRef())
	}
	ref := "uploads/a.png"
	r.Image = &ref
	if r.ImageRef() != ref {
		t.Errorf("ImageRef() = %q, want %q", r.ImageRef(), ref)
	}
}

func TestReview_StatusLabel(t *testing.T) {
	if got := (Review{Approved: true}).StatusLabel(); got != "Approved" {
		t.Errorf("StatusLabel() = %q, want Approved", got)
	}
	if got := (Review{}).StatusLabel(); got != "Pending" {
		t.Errorf("StatusLabel() = %q, want Pending", got)
	}
}

func TestInfluencer_SearchFields(t *testing.T) {
	i := Influencer{Name: "Mia", Desc: "Travel vlogger", Keywords: []string{"travel", "food"}}
	fields := i.SearchFields()
	if len(fields) != 4 {
		t.Fatalf("len(SearchFields()) = %d, want 4", len(fields))
	}
	if fields[3] != "food" {
		t.Errorf("SearchFields()[3] = %q, want food", fields[3])
	}
}

func TestIsBlogCategory(t *testing.T) {
	if !IsBlogCategory("Finance") {
		t.Error("IsBlogCategory(Finance) = false, want true")
	}
	if IsBlogCategory("finance") {
		t.Error("IsBlogCategory(finance) = true, want false")
	}
}
