package model

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
)

func TestSubmitAnswerRequestValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     SubmitAnswerRequest
		wantErr bool
	}{
		{"first question smallest choice", SubmitAnswerRequest{QuestionIndex: 0, Choice: 1}, false},
		{"later question", SubmitAnswerRequest{QuestionIndex: 9, Choice: 16}, false},
		{"zero choice rejected", SubmitAnswerRequest{QuestionIndex: 0, Choice: 0}, true},
		{"negative choice rejected", SubmitAnswerRequest{QuestionIndex: 0, Choice: -4}, true},
		{"negative index rejected", SubmitAnswerRequest{QuestionIndex: -1, Choice: 3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(&tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct(%+v) error = %v, wantErr %v", tt.req, err, tt.wantErr)
			}
		})
	}
}

func TestGameModeValid(t *testing.T) {
	for _, mode := range []GameMode{ModeEasy, ModeMedium, ModeChallenge} {
		if !mode.Valid() {
			t.Errorf("%s reported invalid", mode)
		}
	}
	if GameMode("expert").Valid() {
		t.Error("unknown mode reported valid")
	}
}
