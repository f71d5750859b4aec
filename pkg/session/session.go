package session

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/sessionstack/pkg/logger"
)

// Session is the request-scoped view of a frame stack. The top frame is the
// current identity; frames below it stay persisted and are restored by Pop.
// A Session is not safe for concurrent use.
type Session struct {
	m         *Manager
	stack     Stack
	keys      KeyMaterial
	lookupKey string
	parent    string
	expiresAt time.Time
}

// ID returns the current identifier, or None when the stack is empty.
func (s *Session) ID() ID {
	return s.stack.Current()
}

// Stack returns a copy of the frame stack, bottom first.
func (s *Session) Stack() Stack {
	return Stack(s.stack.Frames())
}

// Depth returns the number of frames.
func (s *Session) Depth() int {
	return s.stack.Len()
}

func (s *Session) IsEmpty() bool {
	return s.stack.IsEmpty()
}

// Push creates a new frame on top of the stack and makes it current. The
// previous top keeps its record (marked inactive) so Pop can restore it.
func (s *Session) Push(ctx context.Context) (ID, error) {
	keys, err := NewKeyMaterial()
	if err != nil {
		return None, err
	}

	record, err := s.m.claimFrame(ctx, keys, s.stack, s.lookupKey)
	if err != nil {
		return None, err
	}

	// Cover the previous top and give the frames below the new expiry.
	if err := s.m.stampFrames(ctx, s.lookupKey, s.stack.Len(), record.ExpiresAt, true); err != nil {
		if delErr := s.m.store.Delete(ctx, record.LookupKey); delErr != nil {
			err = errors.Join(err, delErr)
		}
		return None, err
	}

	s.stack = record.Stack
	s.keys = keys
	s.parent = s.lookupKey
	s.lookupKey = record.LookupKey
	s.expiresAt = record.ExpiresAt

	s.m.logger.DebugContext(ctx, "session frame pushed",
		logger.SessionID(record.ID),
		logger.StackDepth(s.stack.Len()),
	)

	return record.ID, nil
}

// Pop removes the current frame, deletes its record and returns its
// identifier. The frame below becomes current again with its own key
// material. Popping the last frame leaves the session empty unless the
// manager is configured with AutoRepush. Popping an empty session returns
// ErrEmptyStack.
func (s *Session) Pop(ctx context.Context) (ID, error) {
	return s.pop(ctx, s.m.config.AutoRepush)
}

func (s *Session) pop(ctx context.Context, repush bool) (ID, error) {
	if s.stack.IsEmpty() {
		return None, ErrEmptyStack
	}

	popped := s.stack.Current()
	rest := s.stack.below()

	// The parent is reactivated before the top goes, so a failure on either
	// side leaves the session as it was.
	parent, err := s.activateParent(ctx, rest)
	if err != nil {
		return None, err
	}

	if s.lookupKey != "" {
		if err := s.m.store.Delete(ctx, s.lookupKey); err != nil {
			if parent != nil {
				if _, coverErr := s.m.setActive(ctx, parent.LookupKey, false); coverErr != nil {
					err = errors.Join(err, coverErr)
				}
			}
			return None, err
		}
	}

	s.clear()
	switch {
	case parent != nil:
		s.restore(parent)
	case !rest.IsEmpty():
		s.m.logger.WarnContext(ctx, "session parent frame lost, stack dropped",
			logger.StackDepth(rest.Len()),
		)
	}

	s.m.logger.DebugContext(ctx, "session frame popped",
		logger.SessionID(popped),
		logger.StackDepth(s.stack.Len()),
	)

	if s.stack.IsEmpty() && repush {
		if _, err := s.Push(ctx); err != nil {
			return None, err
		}
	}

	return popped, nil
}

// ResetCurrent replaces the current frame with a fresh one. Frames below it
// are not touched.
func (s *Session) ResetCurrent(ctx context.Context) error {
	if !s.stack.IsEmpty() {
		if _, err := s.pop(ctx, false); err != nil {
			return err
		}
	}
	_, err := s.Push(ctx)
	return err
}

// ResetStack deletes every frame record of the stack and pushes one new frame.
func (s *Session) ResetStack(ctx context.Context) error {
	key := s.lookupKey
	for range s.stack.Len() {
		if key == "" {
			break
		}
		record, err := s.m.getRecord(ctx, key)
		if err != nil && !errors.Is(err, ErrRecordNotFound) && !errors.Is(err, ErrInvalidRecord) {
			return err
		}
		if err := s.m.store.Delete(ctx, key); err != nil {
			return err
		}
		if record == nil {
			break
		}
		key = record.Parent
	}

	s.clear()
	_, err := s.Push(ctx)
	return err
}

// Cookie encodes the current state as a cookie value:
// base64(encrypt(current id)) + "--" + base64(hmac(pack(stack))).
func (s *Session) Cookie() (string, error) {
	if s.stack.IsEmpty() {
		return "", ErrEmptyStack
	}

	ciphertext, err := s.keys.Encrypt(s.stack.Current())
	if err != nil {
		return "", err
	}

	return EncodeCookie(ciphertext, s.keys.Sign(s.m.digest, s.stack)), nil
}

// Verify reports whether value is a valid cookie for the session's current
// stack. Only store failures are returned as errors.
func (s *Session) Verify(ctx context.Context, value string) (bool, error) {
	if s.stack.IsEmpty() {
		return false, nil
	}
	_, err := s.m.Verify(ctx, value, s.stack)
	if errors.Is(err, ErrVerificationFailed) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// activateParent marks the frame below the top active again and returns its
// record. It returns nil when the record is gone or belongs to another
// stack; the remaining frames cannot be authenticated any more in that case.
func (s *Session) activateParent(ctx context.Context, rest Stack) (*Record, error) {
	if s.parent == "" || rest.IsEmpty() {
		return nil, nil
	}

	record, err := s.m.getRecord(ctx, s.parent)
	if errors.Is(err, ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if !record.Stack.Equal(rest) {
		if err := s.m.store.Delete(ctx, s.parent); err != nil {
			return nil, err
		}
		return nil, nil
	}

	record.Active = true
	if err := s.m.putRecord(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Session) restore(record *Record) {
	s.stack = Stack(record.Stack.Frames())
	s.keys = record.KeyMaterial()
	s.lookupKey = record.LookupKey
	s.parent = record.Parent
	s.expiresAt = record.ExpiresAt
}

func (s *Session) clear() {
	s.stack = nil
	s.keys = KeyMaterial{}
	s.lookupKey = ""
	s.parent = ""
	s.expiresAt = time.Time{}
}
