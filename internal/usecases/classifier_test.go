package usecases

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"whatsapp_crm/internal/entities"
)

func TestClassifyInterest(t *testing.T) {
	tests := []struct {
		name string
		text string
		want entities.Interest
	}{
		{"fees", "What are the fees?", entities.InterestFees},
		{"uppercase", "FEES PLEASE", entities.InterestFees},
		{"price", "price kya hai", entities.InterestFees},
		{"substring counts", "coffee break?", entities.InterestFees},
		{"admission", "When is admission?", entities.InterestAdmission},
		{"join", "I want to join", entities.InterestAdmission},
		{"enroll", "How do I enroll", entities.InterestAdmission},
		{"syllabus", "Share the syllabus", entities.InterestSyllabus},
		{"course", "Which course is best", entities.InterestSyllabus},
		{"batch", "Batch timing?", entities.InterestBatch},
		{"time", "what time", entities.InterestBatch},
		{"fees wins over batch", "fee for evening batch", entities.InterestFees},
		{"admission wins over syllabus", "join the course", entities.InterestAdmission},
		{"other", "hello there", entities.InterestOther},
		{"empty", "", entities.InterestOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyInterest(tt.text))
		})
	}
}
