package anime

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/varoOP/aniview/internal/domain"
	"github.com/varoOP/aniview/internal/live"
)

// Stream is the read side of a latest-value channel
type Stream[T any] interface {
	Get() (T, bool)
	Subscribe() *live.Subscription[T]
	Observe(fn func(T)) (cancel func())
}

type stage int

const (
	stageIdle stage = iota
	stageShown
	stageHidden
	stageDone
)

// emitter publishes the states of one request in order:
// Loading(show), Loading(hide), then a single terminal state.
type emitter[T any] struct {
	log   zerolog.Logger
	id    string
	out   *live.Value[domain.RequestState[T]]
	stage stage
}

func newEmitter[T any](log zerolog.Logger, out *live.Value[domain.RequestState[T]]) *emitter[T] {
	id := uuid.NewString()
	return &emitter[T]{
		log: log.With().Str("request_id", id).Logger(),
		id:  id,
		out: out,
	}
}

func (e *emitter[T]) show() {
	if e.stage != stageIdle {
		e.log.Warn().Msg("loading already shown")
		return
	}
	e.stage = stageShown
	e.out.Set(domain.Loading[T](e.id, domain.LoadingShow))
}

// finish hides the loading indicator and publishes the terminal state
func (e *emitter[T]) finish(state domain.RequestState[T]) {
	if e.stage == stageDone {
		e.log.Warn().Stringer("kind", state.Kind).Msg("request already finished, dropping state")
		return
	}
	if !state.IsTerminal() {
		e.log.Warn().Stringer("kind", state.Kind).Msg("non terminal state passed to finish")
		return
	}
	if e.stage != stageHidden {
		e.stage = stageHidden
		e.out.Set(domain.Loading[T](e.id, domain.LoadingHide))
	}

	state.RequestID = e.id
	e.stage = stageDone
	e.out.Set(state)

	e.log.Debug().Stringer("kind", state.Kind).Str("message", state.Message).Msg("request finished")
}

func (e *emitter[T]) success(data T, message string) {
	e.finish(domain.Success(e.id, data, message))
}

func (e *emitter[T]) failure(message string) {
	e.finish(domain.Failure[T](e.id, message))
}
