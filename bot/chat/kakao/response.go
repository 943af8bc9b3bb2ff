// Package kakao maps the engine's prompts onto the KakaoTalk skill
// payloads used by the i OpenBuilder webhook.
package kakao

import (
	"github.com/holica49/led-rental-chatbot-sub000/bot/chat"
)

const skillVersion = "2.0"

// Kakao renders at most ten quick replies per message.
const maxQuickReplies = 10

// SkillPayload is the inbound webhook body. Only the fields this bot
// consumes are mapped.
type SkillPayload struct {
	UserRequest UserRequest `json:"userRequest" validate:"required"`
}

type UserRequest struct {
	Utterance string    `json:"utterance" validate:"required"`
	User      SkillUser `json:"user" validate:"required"`
}

type SkillUser struct {
	ID   string `json:"id" validate:"required"`
	Type string `json:"type"`
}

// SkillResponse is the outbound skill body.
type SkillResponse struct {
	Version  string   `json:"version"`
	Template Template `json:"template"`
}

type Template struct {
	Outputs      []Output     `json:"outputs"`
	QuickReplies []QuickReply `json:"quickReplies,omitempty"`
}

type Output struct {
	SimpleText *SimpleText `json:"simpleText,omitempty"`
}

type SimpleText struct {
	Text string `json:"text"`
}

type QuickReply struct {
	Label       string `json:"label"`
	Action      string `json:"action"`
	MessageText string `json:"messageText"`
}

// FromPrompt converts an engine prompt into a skill response with the
// prompt's choices attached as quick replies.
func FromPrompt(p chat.Prompt) SkillResponse {
	resp := SkillResponse{Version: skillVersion}
	resp.Template.Outputs = []Output{
		{SimpleText: &SimpleText{Text: p.Text}},
	}

	for i, c := range p.Choices {
		if i == maxQuickReplies {
			break
		}
		resp.Template.QuickReplies = append(resp.Template.QuickReplies, QuickReply{
			Label:       c.Label,
			Action:      "message",
			MessageText: c.Label,
		})
	}

	return resp
}

// Failure is the generic error response for turns that could not be
// processed at all.
func Failure(text string) SkillResponse {
	return FromPrompt(chat.Prompt{Text: text})
}
