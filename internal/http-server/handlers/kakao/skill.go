package kakao

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/holica49/led-rental-chatbot-sub000/bot/chat"
	botkakao "github.com/holica49/led-rental-chatbot-sub000/bot/chat/kakao"
	"github.com/holica49/led-rental-chatbot-sub000/internal/lib/sl"
)

const msgUnavailable = "일시적인 오류가 발생했습니다. 잠시 후 다시 시도해 주세요."

// Engine processes one conversation turn.
type Engine interface {
	Handle(ctx context.Context, userID, utterance string) (chat.Prompt, error)
}

var validate = validator.New()

// Skill handles POST requests from the KakaoTalk OpenBuilder skill webhook.
// Errors are always answered with a well-formed skill response, because
// OpenBuilder shows raw HTTP failures to the end user.
func Skill(log *slog.Logger, engine Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.kakao")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if engine == nil {
			logger.Error("chat engine not available")
			render.JSON(w, r, botkakao.Failure(msgUnavailable))
			return
		}

		var payload botkakao.SkillPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			logger.Error("failed to decode request body", sl.Err(err))
			render.JSON(w, r, botkakao.Failure(msgUnavailable))
			return
		}

		if err := validate.Struct(payload); err != nil {
			logger.Error("invalid skill payload", sl.Err(err))
			render.JSON(w, r, botkakao.Failure(msgUnavailable))
			return
		}

		prompt, err := engine.Handle(r.Context(), payload.UserRequest.User.ID, payload.UserRequest.Utterance)
		if err != nil {
			logger.Error("turn failed", sl.Err(err))
			render.JSON(w, r, botkakao.Failure(msgUnavailable))
			return
		}

		logger.With(
			slog.String("user_id", payload.UserRequest.User.ID),
		).Debug("turn handled")

		render.JSON(w, r, botkakao.FromPrompt(prompt))
	}
}
