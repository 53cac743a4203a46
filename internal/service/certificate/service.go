package certificate

import (
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/matcert/internal/domain/models"
)

// Messages returned to the client after successful mutations.
const (
	MsgSessionStarted = "Session started"
	MsgFieldUpdated   = "Field updated"
	MsgItemAdded      = "Item added successfully!"
	MsgItemRemoved    = "Item removed successfully!"
	MsgItemLoaded     = "Item loaded for editing"
	MsgFormReset      = "Form reset successfully!"
)

// FormService describes the record operations the HTTP layer can perform.
type FormService interface {
	Catalog() models.Catalog
	StartSession() models.SessionState
	State(sessionID string) (models.SessionState, error)
	EndSession(sessionID string) error
	UpdateField(sessionID, name, value string) (models.SessionState, error)
	UpdateDraftItem(sessionID, field, value string) (models.SessionState, error)
	UpdateDraftChemical(sessionID, element, value string) (models.SessionState, error)
	CommitDraftItem(sessionID string) (models.SessionState, error)
	RemoveItem(sessionID string, index int) (models.SessionState, error)
	EditItem(sessionID string, index int) (models.SessionState, error)
	ResetRecord(sessionID string) (models.SessionState, error)
	ExportableRecord(sessionID string) (models.CertificateRecord, error)
}

// Service implements FormService on top of a SessionManager.
type Service struct {
	sessions *SessionManager
	logger   *zap.Logger
}

// NewService wires a form service.
func NewService(sessions *SessionManager, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{sessions: sessions, logger: logger}
}

// Catalog returns the fixed grade and element option sets.
func (s *Service) Catalog() models.Catalog {
	return models.Catalog{
		MaterialGrades: append([]models.MaterialGrade(nil), models.MaterialGrades...),
		Elements:       append([]models.Element(nil), models.Elements...),
	}
}

// StartSession opens a session holding a fresh record.
func (s *Service) StartSession() models.SessionState {
	sess := s.sessions.CreateSession()
	var state models.SessionState
	_ = sess.Do(s.sessions.Now(), func(st *Store) error {
		state = snapshot(sess.ID, MsgSessionStarted, st)
		return nil
	})
	s.logger.Info("session started",
		zap.String("session_id", sess.ID),
		zap.String("certificate_number", state.Record.CertificateNumber))
	return state
}

// State returns the current record and draft.
func (s *Service) State(sessionID string) (models.SessionState, error) {
	return s.mutate(sessionID, "", func(*Store) error { return nil })
}

// EndSession discards the session and its record.
func (s *Service) EndSession(sessionID string) error {
	if err := s.sessions.ClearSession(sessionID); err != nil {
		return err
	}
	s.logger.Info("session ended", zap.String("session_id", sessionID))
	return nil
}

// UpdateField sets a header field.
func (s *Service) UpdateField(sessionID, name, value string) (models.SessionState, error) {
	return s.mutate(sessionID, MsgFieldUpdated, func(st *Store) error {
		return st.UpdateField(name, value)
	})
}

// UpdateDraftItem sets a draft item field.
func (s *Service) UpdateDraftItem(sessionID, field, value string) (models.SessionState, error) {
	return s.mutate(sessionID, MsgFieldUpdated, func(st *Store) error {
		return st.UpdateDraftItem(field, value)
	})
}

// UpdateDraftChemical sets a draft element reading.
func (s *Service) UpdateDraftChemical(sessionID, element, value string) (models.SessionState, error) {
	return s.mutate(sessionID, MsgFieldUpdated, func(st *Store) error {
		return st.UpdateDraftChemical(element, value)
	})
}

// CommitDraftItem appends the draft to the record.
func (s *Service) CommitDraftItem(sessionID string) (models.SessionState, error) {
	return s.mutate(sessionID, MsgItemAdded, func(st *Store) error {
		return st.CommitDraftItem()
	})
}

// RemoveItem deletes an item by position.
func (s *Service) RemoveItem(sessionID string, index int) (models.SessionState, error) {
	return s.mutate(sessionID, MsgItemRemoved, func(st *Store) error {
		return st.RemoveItem(index)
	})
}

// EditItem loads an item into the draft.
func (s *Service) EditItem(sessionID string, index int) (models.SessionState, error) {
	return s.mutate(sessionID, MsgItemLoaded, func(st *Store) error {
		return st.EditItem(index)
	})
}

// ResetRecord replaces the record with a fresh one.
func (s *Service) ResetRecord(sessionID string) (models.SessionState, error) {
	state, err := s.mutate(sessionID, MsgFormReset, func(st *Store) error {
		st.ResetRecord()
		return nil
	})
	if err == nil {
		s.logger.Info("record reset",
			zap.String("session_id", sessionID),
			zap.String("certificate_number", state.Record.CertificateNumber))
	}
	return state, err
}

// ExportableRecord returns a copy of the record once it passes export validation.
func (s *Service) ExportableRecord(sessionID string) (models.CertificateRecord, error) {
	var record models.CertificateRecord
	_, err := s.mutate(sessionID, "", func(st *Store) error {
		if err := st.ValidateForExport(); err != nil {
			return err
		}
		record = st.Record()
		return nil
	})
	return record, err
}

// SweepIdle expires sessions idle for longer than ttl.
func (s *Service) SweepIdle(ttl time.Duration) int {
	removed := s.sessions.SweepIdle(ttl)
	if removed > 0 {
		s.logger.Info("expired idle sessions", zap.Int("removed", removed), zap.Int("remaining", s.sessions.Len()))
	}
	return removed
}

func (s *Service) mutate(sessionID, message string, fn func(*Store) error) (models.SessionState, error) {
	sess, err := s.sessions.GetSession(sessionID)
	if err != nil {
		return models.SessionState{}, err
	}

	var state models.SessionState
	err = sess.Do(s.sessions.Now(), func(st *Store) error {
		if err := fn(st); err != nil {
			return err
		}
		state = snapshot(sess.ID, message, st)
		return nil
	})
	if err != nil {
		s.logger.Debug("session operation rejected", zap.String("session_id", sessionID), zap.Error(err))
		return models.SessionState{}, err
	}
	return state, nil
}

func snapshot(id, message string, st *Store) models.SessionState {
	return models.SessionState{
		SessionID: id,
		Message:   message,
		Record:    st.Record(),
		Draft:     st.Draft(),
	}
}
