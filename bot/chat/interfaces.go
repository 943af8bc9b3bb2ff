package chat

import (
	"context"

	"github.com/holica49/led-rental-chatbot-sub000/entity"
)

// StepID is a unique identifier for a step within a service flow.
type StepID string

// Choice is one suggested quick reply attached to a prompt.
type Choice struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Prompt is the single outbound message produced for one inbound turn.
type Prompt struct {
	Text    string   `json:"text"`
	Choices []Choice `json:"choices,omitempty"`
}

// HandleResult reports how a step handled one answer.
type HandleResult struct {
	Retry    bool   // answer rejected, re-ask the same step
	Notice   string // validator message shown with the retry
	Complete bool   // terminal confirmation accepted
	Err      error  // fatal, roll the turn back
}

// Handler owns one step: rendering its question and consuming the answer.
// Handle mutates session data only; transitions are resolved by the engine
// from the step graph.
type Handler interface {
	ID() StepID
	Prompt(s *Session) Prompt
	Handle(raw string, s *Session) HandleResult
}

// RuleID names a data-dependent transition. Rules keep the step graphs
// declarative: the graph stores the rule name, the flow set evaluates it.
type RuleID string

const (
	RuleNone              RuleID = ""
	RuleEnvironmentBranch RuleID = "environment_branch"
	RuleOperatorBranch    RuleID = "operator_branch"
	RuleLoopContinue      RuleID = "loop_continue"
)

// NextStep is a tagged successor: a fixed step id, or a named rule.
type NextStep struct {
	Step StepID `json:"step,omitempty"`
	Rule RuleID `json:"rule,omitempty"`
}

func Fixed(id StepID) NextStep   { return NextStep{Step: id} }
func Computed(r RuleID) NextStep { return NextStep{Rule: r} }

// StepDef is one node of a service step graph.
type StepDef struct {
	ID       StepID
	Required bool
	Next     NextStep
}

// Graph is the static step graph for one service type.
type Graph struct {
	Service string
	Start   StepID
	Steps   map[StepID]StepDef
}

// Transition is a resolved successor. AdvanceCursor tells the engine to
// move the equipment-loop cursor; resolution itself stays pure.
type Transition struct {
	Next          StepID
	AdvanceCursor bool
}

// Flows bundles the handlers and graphs for every service type.
type Flows interface {
	Handler(id StepID) (Handler, bool)
	Initial() Handler
	Next(s *Session) (Transition, error)
	Progress(s *Session) (pos, total int)
}

// Store is the session store contract the engine depends on.
type Store interface {
	Get(userID string) *Session
	Reset(userID string)
}

// Quoter computes the price breakdown for a collected equipment list.
type Quoter interface {
	Quote(specs []entity.EquipmentSpec, rentalDays int) (*entity.QuoteBreakdown, error)
}

// CompletionListener receives every completed intake for persistence,
// notification and broadcasting, without coupling the engine to any of it.
type CompletionListener interface {
	OnIntakeComplete(ctx context.Context, project *entity.Project)
}
