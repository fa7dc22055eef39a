package usecases

import (
	"strings"

	"whatsapp_crm/internal/entities"
)

type interestKeywords struct {
	interest entities.Interest
	keywords []string
}

// Checked in order; the first family with a substring hit wins, so "fee" beats "batch".
var interestFamilies = []interestKeywords{
	{entities.InterestFees, []string{"fee", "fees", "price"}},
	{entities.InterestAdmission, []string{"admission", "join", "enroll"}},
	{entities.InterestSyllabus, []string{"syllabus", "course"}},
	{entities.InterestBatch, []string{"batch", "timing", "time"}},
}

// ClassifyInterest tags free text with one interest category.
// Matching is case-insensitive substring containment, so "coffee" counts as fees.
func ClassifyInterest(text string) entities.Interest {
	if text == "" {
		return entities.InterestOther
	}
	lower := strings.ToLower(text)
	for _, family := range interestFamilies {
		if containsAny(lower, family.keywords) {
			return family.interest
		}
	}
	return entities.InterestOther
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
