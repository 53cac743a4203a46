package certificate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/matcert/internal/domain/models"
)

type manualClock struct {
	t time.Time
}

func (c *manualClock) Now() time.Time { return c.t }

func (c *manualClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestService(t *testing.T) (*Service, *manualClock) {
	t.Helper()
	clock := &manualClock{t: time.Date(2024, time.June, 14, 9, 0, 0, 0, time.UTC)}
	gen := NewNumberGenerator("")
	gen.now = clock.Now
	sessions := NewSessionManager(gen)
	sessions.now = clock.Now
	return NewService(sessions, nil), clock
}

func TestService_SessionLifecycle(t *testing.T) {
	svc, _ := newTestService(t)

	state := svc.StartSession()
	require.NotEmpty(t, state.SessionID)
	assert.Equal(t, MsgSessionStarted, state.Message)
	assert.Regexp(t, numberPattern, state.Record.CertificateNumber)

	got, err := svc.State(state.SessionID)
	require.NoError(t, err)
	assert.Equal(t, state.Record.CertificateNumber, got.Record.CertificateNumber)

	require.NoError(t, svc.EndSession(state.SessionID))
	_, err = svc.State(state.SessionID)
	assert.ErrorIs(t, err, models.ErrLookup)
	assert.ErrorIs(t, svc.EndSession(state.SessionID), models.ErrLookup)
}

func TestService_SessionsAreIsolated(t *testing.T) {
	svc, _ := newTestService(t)
	a := svc.StartSession()
	b := svc.StartSession()
	require.NotEqual(t, a.SessionID, b.SessionID)

	_, err := svc.UpdateField(a.SessionID, FieldPartyName, "Alpha")
	require.NoError(t, err)

	stateB, err := svc.State(b.SessionID)
	require.NoError(t, err)
	assert.Empty(t, stateB.Record.PartyName)
}

func TestService_ItemFlow(t *testing.T) {
	svc, _ := newTestService(t)
	id := svc.StartSession().SessionID

	_, err := svc.CommitDraftItem(id)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.UpdateDraftItem(id, DraftMaterialGrade, "SGACC")
	require.NoError(t, err)
	_, err = svc.UpdateDraftChemical(id, "SI", ".9")
	require.NoError(t, err)
	state, err := svc.CommitDraftItem(id)
	require.NoError(t, err)
	assert.Equal(t, MsgItemAdded, state.Message)
	require.Len(t, state.Record.Items, 1)

	state, err = svc.EditItem(id, 0)
	require.NoError(t, err)
	assert.Equal(t, MsgItemLoaded, state.Message)
	assert.Empty(t, state.Record.Items)
	assert.Equal(t, ".9", state.Draft.ChemicalComposition[models.ElementSI])

	_, err = svc.RemoveItem(id, 0)
	assert.ErrorIs(t, err, models.ErrLookup)

	_, err = svc.CommitDraftItem(id)
	require.NoError(t, err)
	state, err = svc.RemoveItem(id, 0)
	require.NoError(t, err)
	assert.Equal(t, MsgItemRemoved, state.Message)
	assert.Empty(t, state.Record.Items)
}

func TestService_ExportableRecord(t *testing.T) {
	svc, _ := newTestService(t)
	id := svc.StartSession().SessionID

	_, err := svc.ExportableRecord(id)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.UpdateField(id, FieldPartyName, "Acme")
	require.NoError(t, err)
	_, err = svc.UpdateDraftItem(id, DraftMaterialGrade, "SGI")
	require.NoError(t, err)
	_, err = svc.CommitDraftItem(id)
	require.NoError(t, err)

	rec, err := svc.ExportableRecord(id)
	require.NoError(t, err)
	assert.Equal(t, "Acme", rec.PartyName)
	assert.Len(t, rec.Items, 1)
}

func TestService_Reset(t *testing.T) {
	svc, _ := newTestService(t)
	start := svc.StartSession()
	id := start.SessionID

	_, err := svc.UpdateField(id, FieldPartyName, "Acme")
	require.NoError(t, err)

	var state models.SessionState
	for i := 0; i < 20; i++ {
		state, err = svc.ResetRecord(id)
		require.NoError(t, err)
		if state.Record.CertificateNumber != start.Record.CertificateNumber {
			break
		}
	}
	assert.Equal(t, MsgFormReset, state.Message)
	assert.Empty(t, state.Record.PartyName)
	assert.NotEqual(t, start.Record.CertificateNumber, state.Record.CertificateNumber)
}

func TestService_SweepIdle(t *testing.T) {
	svc, clock := newTestService(t)
	stale := svc.StartSession().SessionID
	clock.Advance(20 * time.Minute)
	fresh := svc.StartSession().SessionID

	clock.Advance(15 * time.Minute)
	assert.Equal(t, 1, svc.SweepIdle(30*time.Minute))

	_, err := svc.State(stale)
	assert.ErrorIs(t, err, models.ErrLookup)
	_, err = svc.State(fresh)
	assert.NoError(t, err)

	assert.Zero(t, svc.SweepIdle(0))
}

func TestService_TouchKeepsSessionAlive(t *testing.T) {
	svc, clock := newTestService(t)
	id := svc.StartSession().SessionID

	clock.Advance(25 * time.Minute)
	_, err := svc.State(id)
	require.NoError(t, err)

	clock.Advance(25 * time.Minute)
	assert.Zero(t, svc.SweepIdle(30*time.Minute))
}

func TestService_Catalog(t *testing.T) {
	svc, _ := newTestService(t)
	cat := svc.Catalog()
	assert.Len(t, cat.MaterialGrades, 9)
	assert.Len(t, cat.Elements, 12)
	assert.Equal(t, models.ElementC, cat.Elements[0])
	assert.Equal(t, models.ElementTI, cat.Elements[11])
}
