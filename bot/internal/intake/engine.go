package intake

import (
	"context"
	"strings"
	"sync"

	"photointake/bot/internal/session"

	"go.uber.org/zap"
)

// EventKind classifies inbound chat-transport events.
type EventKind string

const (
	KindStart    EventKind = "start"
	KindText     EventKind = "text"
	KindPhoto    EventKind = "photo"
	KindDocument EventKind = "document"
	KindButton   EventKind = "button"
)

// PhotoAttachment describes a photo carried by an inbound event.
type PhotoAttachment struct {
	FileID string
	// SizeBytes as reported by the transport; checked before download.
	SizeBytes int64
	// MediaGroup marks the photo as part of a multi-image album.
	MediaGroup bool
}

// Event is a single inbound chat-transport event, already normalized by the
// transport layer.
type Event struct {
	UserID   int64
	Username string
	Kind     EventKind
	Text     string
	Photo    *PhotoAttachment
	Action   string
}

// Orchestrator is the submission side the engine drives: attachment download,
// job hand-off, and pending-photo disposal.
type Orchestrator interface {
	Download(ctx context.Context, userID int64, fileID string) (string, error)
	Enqueue(ctx context.Context, userID int64, username string, sess *session.Session) error
	Discard(sess *session.Session)
}

// Config holds the engine's conversation rules.
type Config struct {
	AccessPassword string
	MaxPhotoBytes  int64
}

// Engine advances per-user sessions on inbound events. Events for the same
// user are handled strictly one at a time; events for different users may
// interleave freely.
type Engine struct {
	store  session.Store
	orch   Orchestrator
	cfg    Config
	logger *zap.Logger

	locks sync.Map // userID -> *sync.Mutex
}

// New creates an engine.
func New(store session.Store, orch Orchestrator, cfg Config, logger *zap.Logger) *Engine {
	return &Engine{
		store:  store,
		orch:   orch,
		cfg:    cfg,
		logger: logger,
	}
}

// Sanitize strips angle brackets from user-supplied text.
func Sanitize(s string) string {
	s = strings.ReplaceAll(s, "<", "")
	return strings.ReplaceAll(s, ">", "")
}

// HandleEvent runs one event through the state machine and returns the reply
// to send back. Any panic inside handling is recovered here: the session is
// reset so the user is never left stuck, and the failure is logged with the
// user identity and event kind.
func (e *Engine) HandleEvent(ctx context.Context, ev Event) (reply Reply) {
	lock := e.userLock(ev.UserID)
	lock.Lock()
	defer lock.Unlock()

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("update handler panicked",
				zap.Int64("user_id", ev.UserID),
				zap.String("username", ev.Username),
				zap.String("event", string(ev.Kind)),
				zap.Any("panic", r),
			)
			sess := e.store.Get(ev.UserID)
			e.orch.Discard(sess)
			e.store.Clear(ev.UserID)
			reply = Reply{Text: textGenericRestart}
		}
	}()

	if ev.Kind == KindStart {
		return e.handleStart(ev)
	}

	sess := e.store.Get(ev.UserID)
	sess.Username = ev.Username

	switch sess.Step {
	case session.StepUnstarted:
		return Reply{Text: textPressStart}
	case session.StepAwaitingStartAck:
		return e.handleStartAck(ev, sess)
	case session.StepAwaitingPassword:
		return e.handlePassword(ev, sess)
	case session.StepAwaitingPolicyAck:
		return e.handleAck(ev, sess, ActionPolicyAck, session.StepAwaitingRulesAck, rulesReply())
	case session.StepAwaitingRulesAck:
		return e.handleAck(ev, sess, ActionRulesAck, session.StepAwaitingName, Reply{Text: textAskName})
	case session.StepAwaitingName:
		return e.handleName(ev, sess)
	case session.StepAwaitingPhoto:
		return e.handlePhoto(ctx, ev, sess)
	case session.StepAwaitingConfirmation:
		return e.handleConfirmation(ctx, ev, sess)
	}

	return Reply{Text: textGenericRestart}
}

// handleStart unconditionally resets the session, discarding any pending
// photo file first.
func (e *Engine) handleStart(ev Event) Reply {
	sess := e.store.Get(ev.UserID)
	e.orch.Discard(sess)

	fresh := session.New()
	fresh.Step = session.StepAwaitingStartAck
	fresh.Username = ev.Username
	e.store.Put(ev.UserID, fresh)

	e.logger.Info("session started",
		zap.Int64("user_id", ev.UserID),
		zap.String("username", ev.Username),
	)
	return greetingReply()
}

func (e *Engine) handleStartAck(ev Event, sess *session.Session) Reply {
	if ev.Kind == KindButton && ev.Action == ActionBegin {
		sess.Step = session.StepAwaitingPassword
		e.store.Put(ev.UserID, sess)
		return Reply{Text: textAskPassword}
	}
	return greetingReply()
}

func (e *Engine) handlePassword(ev Event, sess *session.Session) Reply {
	if ev.Kind != KindText {
		return Reply{Text: textPasswordFirst}
	}

	// Comparison is exact and case-sensitive after angle-bracket stripping.
	if Sanitize(ev.Text) != e.cfg.AccessPassword {
		e.logger.Warn("invalid password",
			zap.Int64("user_id", ev.UserID),
			zap.String("username", ev.Username),
		)
		return Reply{Text: textWrongPassword}
	}

	sess.Step = session.StepAwaitingPolicyAck
	e.store.Put(ev.UserID, sess)
	e.logger.Info("authorization succeeded",
		zap.Int64("user_id", ev.UserID),
		zap.String("username", ev.Username),
	)
	return policyReply()
}

// handleAck handles the two acknowledgment gates (policy, rules). Anything
// other than the expected button leaves the state untouched.
func (e *Engine) handleAck(ev Event, sess *session.Session, action string, next session.Step, onAck Reply) Reply {
	if ev.Kind == KindButton && ev.Action == action {
		sess.Step = next
		e.store.Put(ev.UserID, sess)
		return onAck
	}
	return Reply{Text: textUseButtons}
}

func (e *Engine) handleName(ev Event, sess *session.Session) Reply {
	switch ev.Kind {
	case KindText:
		name := strings.TrimSpace(Sanitize(ev.Text))
		if name == "" {
			return Reply{Text: textAskName}
		}
		sess.DisplayName = name
		sess.Step = session.StepAwaitingPhoto
		e.store.Put(ev.UserID, sess)
		e.logger.Info("display name set",
			zap.Int64("user_id", ev.UserID),
			zap.String("username", ev.Username),
			zap.String("display_name", name),
		)
		return Reply{Text: textAskPhoto}
	case KindPhoto, KindDocument:
		return Reply{Text: textNameFirst}
	default:
		return Reply{Text: textNameFirst}
	}
}

func (e *Engine) handlePhoto(ctx context.Context, ev Event, sess *session.Session) Reply {
	switch ev.Kind {
	case KindPhoto:
		// fall through to the download path below
	case KindDocument:
		return Reply{Text: textDocNotPhoto}
	default:
		return Reply{Text: textPhotoFirst}
	}

	if ev.Photo == nil {
		return Reply{Text: textPhotoFirst}
	}
	if ev.Photo.MediaGroup {
		return Reply{Text: textOnePhotoOnly}
	}
	if ev.Photo.SizeBytes > e.cfg.MaxPhotoBytes {
		return Reply{Text: textPhotoTooLarge}
	}

	path, err := e.orch.Download(ctx, ev.UserID, ev.Photo.FileID)
	if err != nil {
		e.logger.Error("photo download failed",
			zap.Int64("user_id", ev.UserID),
			zap.String("username", ev.Username),
			zap.Error(err),
		)
		return Reply{Text: textPhotoFailed}
	}

	sess.PhotoPath = path
	sess.Step = session.StepAwaitingConfirmation
	e.store.Put(ev.UserID, sess)
	e.logger.Info("photo attached",
		zap.Int64("user_id", ev.UserID),
		zap.String("username", ev.Username),
		zap.String("photo_path", path),
	)
	return confirmReply(sess.DisplayName)
}

func (e *Engine) handleConfirmation(ctx context.Context, ev Event, sess *session.Session) Reply {
	if ev.Kind != KindButton {
		return Reply{Text: textUseButtons}
	}

	switch ev.Action {
	case ActionChange:
		e.orch.Discard(sess)
		sess.Step = session.StepAwaitingName
		e.store.Put(ev.UserID, sess)
		return Reply{Text: textAskName}
	case ActionSubmit:
		if err := e.orch.Enqueue(ctx, ev.UserID, ev.Username, sess); err != nil {
			// The session is kept so the user can retry the submit.
			e.logger.Error("submission enqueue failed",
				zap.Int64("user_id", ev.UserID),
				zap.String("username", ev.Username),
				zap.Error(err),
			)
			return Reply{Text: textEnqueueFailed}
		}
		e.store.Clear(ev.UserID)
		e.logger.Info("submission enqueued",
			zap.Int64("user_id", ev.UserID),
			zap.String("username", ev.Username),
			zap.String("display_name", sess.DisplayName),
		)
		return Reply{Text: textSubmitted}
	default:
		return Reply{Text: textUseButtons}
	}
}

func (e *Engine) userLock(userID int64) *sync.Mutex {
	v, _ := e.locks.LoadOrStore(userID, &sync.Mutex{})
	return v.(*sync.Mutex)
}
