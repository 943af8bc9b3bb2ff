package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/holica49/led-rental-chatbot-sub000/bot/chat"
	"github.com/holica49/led-rental-chatbot-sub000/entity"
	"github.com/holica49/led-rental-chatbot-sub000/internal/lib/sl"
	"github.com/holica49/led-rental-chatbot-sub000/internal/pricing"
)

var ErrNoRepository = errors.New("records store not configured")

// Repository persists completed intakes.
type Repository interface {
	SaveProject(ctx context.Context, project *entity.Project) error
	GetProject(ctx context.Context, uuid string) (*entity.Project, error)
	ListRecentProjects(ctx context.Context, since time.Time) ([]entity.Project, error)
}

// ChatEngine processes one conversation turn.
type ChatEngine interface {
	Handle(ctx context.Context, userID, utterance string) (chat.Prompt, error)
}

// Notifier pushes a plain-text notification to the operator.
type Notifier interface {
	SendMessage(msg string)
}

// Broadcaster feeds the live dashboard.
type Broadcaster interface {
	BroadcastIntake(project *entity.Project)
}

// Core wires the conversation engine to persistence and notifications.
// Every collaborator is optional; a completed intake is delivered to
// whichever ones are configured.
type Core struct {
	repo        Repository
	engine      ChatEngine
	notifier    Notifier
	broadcaster Broadcaster
	log         *slog.Logger
}

func New(log *slog.Logger) *Core {
	return &Core{
		log: log.With(sl.Module("core")),
	}
}

func (c *Core) SetRepository(repo Repository) {
	c.repo = repo
}

func (c *Core) SetChatEngine(engine ChatEngine) {
	c.engine = engine
}

func (c *Core) SetNotifier(notifier Notifier) {
	c.notifier = notifier
}

func (c *Core) SetBroadcaster(b Broadcaster) {
	c.broadcaster = b
}

// Handle forwards a turn to the conversation engine.
func (c *Core) Handle(ctx context.Context, userID, utterance string) (chat.Prompt, error) {
	if c.engine == nil {
		return chat.Prompt{}, errors.New("chat engine not configured")
	}
	return c.engine.Handle(ctx, userID, utterance)
}

// OnIntakeComplete fans a finished intake out to the records store, the
// operator's Telegram chat and the dashboard feed. Failures are logged
// and never surfaced to the end user, whose intake is already accepted.
func (c *Core) OnIntakeComplete(ctx context.Context, project *entity.Project) {
	if c.repo != nil {
		if err := c.repo.SaveProject(ctx, project); err != nil {
			c.log.Error("saving project",
				slog.String("project_uuid", project.UUID),
				sl.Err(err),
			)
		}
	}

	if c.notifier != nil {
		c.notifier.SendMessage(notification(project))
	}

	if c.broadcaster != nil {
		c.broadcaster.BroadcastIntake(project)
	}
}

func (c *Core) GetProject(ctx context.Context, uuid string) (*entity.Project, error) {
	if c.repo == nil {
		return nil, ErrNoRepository
	}
	return c.repo.GetProject(ctx, uuid)
}

func (c *Core) ListRecentProjects(ctx context.Context, since time.Time) ([]entity.Project, error) {
	if c.repo == nil {
		return nil, ErrNoRepository
	}
	return c.repo.ListRecentProjects(ctx, since)
}

// notification renders the operator summary for a completed intake.
func notification(project *entity.Project) string {
	var sb strings.Builder
	sb.WriteString("🆕 새 접수\n")
	sb.WriteString(fmt.Sprintf("서비스: %s\n", project.Service))
	if project.Data.Company != "" {
		sb.WriteString(fmt.Sprintf("회사: %s\n", project.Data.Company))
	}
	if project.Data.ContactName != "" {
		contact := project.Data.ContactName
		if project.Data.ContactTitle != "" {
			contact += " " + project.Data.ContactTitle
		}
		sb.WriteString(fmt.Sprintf("담당자: %s\n", contact))
	}
	if project.Data.Phone != "" {
		sb.WriteString(fmt.Sprintf("연락처: %s\n", project.Data.Phone))
	}
	if len(project.Data.LedSpecs) > 0 {
		sb.WriteString(fmt.Sprintf("LED: %d대\n", len(project.Data.LedSpecs)))
	}
	if project.Quote != nil {
		sb.WriteString(fmt.Sprintf("견적: %s\n", pricing.FormatWon(project.Quote.Total)))
	}
	sb.WriteString(fmt.Sprintf("접수번호: %s", project.UUID))
	return sb.String()
}
