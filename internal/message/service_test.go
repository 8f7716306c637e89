package message

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stevy-aimery/pantheres-finance/internal/auth"
	"github.com/Stevy-aimery/pantheres-finance/internal/rbac"
)

type mockRepo struct {
	createFn       func(ctx context.Context, m *Message) error
	getFn          func(ctx context.Context, id uuid.UUID) (*Message, error)
	listThreadsFn  func(ctx context.Context, membreID *uuid.UUID) ([]*Thread, error)
	updateStatutFn func(ctx context.Context, id uuid.UUID, statut Statut) error
}

func (m *mockRepo) Create(ctx context.Context, msg *Message) error {
	return m.createFn(ctx, msg)
}

func (m *mockRepo) Get(ctx context.Context, id uuid.UUID) (*Message, error) {
	return m.getFn(ctx, id)
}

func (m *mockRepo) ListThreads(ctx context.Context, membreID *uuid.UUID) ([]*Thread, error) {
	return m.listThreadsFn(ctx, membreID)
}

func (m *mockRepo) UpdateStatut(ctx context.Context, id uuid.UUID, statut Statut) error {
	return m.updateStatutFn(ctx, id, statut)
}

func identityFor(role rbac.Role, memberID *uuid.UUID) *auth.Identity {
	return &auth.Identity{
		UserID:   uuid.New(),
		Email:    "test@pantheresfes.ma",
		Role:     role,
		MemberID: memberID,
	}
}

func TestService_Send(t *testing.T) {
	memberID := uuid.New()

	tests := []struct {
		name     string
		identity *auth.Identity
		params   SendParams
		wantErr  error
		check    func(t *testing.T, m *Message)
	}{
		{
			name:     "player question",
			identity: identityFor(rbac.RoleJoueur, &memberID),
			params:   SendParams{Sujet: "Montant cotisation", Contenu: "Pourquoi 250?", TypeMessage: TypeQuestion},
			check: func(t *testing.T, m *Message) {
				assert.Equal(t, StatutNouveau, m.Statut)
				assert.False(t, m.IsFromTresorier)
				assert.Equal(t, &memberID, m.MembreID)
			},
		},
		{
			name:     "treasurer message is flagged",
			identity: identityFor(rbac.RoleTresorier, nil),
			params:   SendParams{Sujet: "Rappel", Contenu: "Pensez aux cotisations", TypeMessage: TypeRemarque},
			check: func(t *testing.T, m *Message) {
				assert.True(t, m.IsFromTresorier)
			},
		},
		{
			name:     "nil identity denied",
			identity: nil,
			params:   SendParams{Sujet: "x", Contenu: "y", TypeMessage: TypeAutre},
			wantErr:  auth.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{
				createFn: func(_ context.Context, m *Message) error {
					m.ID = uuid.New()
					return nil
				},
			}
			svc := NewService(repo, NewHub())

			m, err := svc.Send(context.Background(), tt.identity, tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, m)
		})
	}
}

func TestService_Send_RejectsUnknownType(t *testing.T) {
	svc := NewService(&mockRepo{}, NewHub())

	_, err := svc.Send(context.Background(), identityFor(rbac.RoleJoueur, nil), SendParams{
		Sujet:       "x",
		Contenu:     "y",
		TypeMessage: Type("spam"),
	})

	assert.Error(t, err)
}

func TestService_Reply_TreasurerResolvesThread(t *testing.T) {
	memberID := uuid.New()
	parent := &Message{
		ID:          uuid.New(),
		MembreID:    &memberID,
		Sujet:       "Montant cotisation",
		TypeMessage: TypeQuestion,
		Statut:      StatutNouveau,
	}

	var updatedStatut Statut
	repo := &mockRepo{
		getFn: func(_ context.Context, id uuid.UUID) (*Message, error) {
			require.Equal(t, parent.ID, id)
			return parent, nil
		},
		createFn: func(_ context.Context, m *Message) error {
			m.ID = uuid.New()
			return nil
		},
		updateStatutFn: func(_ context.Context, id uuid.UUID, statut Statut) error {
			require.Equal(t, parent.ID, id)
			updatedStatut = statut
			return nil
		},
	}
	svc := NewService(repo, NewHub())

	m, err := svc.Reply(context.Background(), identityFor(rbac.RoleTresorier, nil), ReplyParams{
		ParentID: parent.ID,
		Contenu:  "Le taux couvre la saison entière.",
	})

	require.NoError(t, err)
	assert.Equal(t, StatutResolu, updatedStatut)
	assert.Equal(t, "Re: Montant cotisation", m.Sujet)
	assert.True(t, m.IsFromTresorier)
}

func TestService_Reply_MemberReopensThread(t *testing.T) {
	memberID := uuid.New()
	parent := &Message{ID: uuid.New(), MembreID: &memberID, Sujet: "Suivi", TypeMessage: TypeQuestion}

	var updatedStatut Statut
	repo := &mockRepo{
		getFn: func(_ context.Context, _ uuid.UUID) (*Message, error) { return parent, nil },
		createFn: func(_ context.Context, m *Message) error {
			m.ID = uuid.New()
			return nil
		},
		updateStatutFn: func(_ context.Context, _ uuid.UUID, statut Statut) error {
			updatedStatut = statut
			return nil
		},
	}
	svc := NewService(repo, NewHub())

	_, err := svc.Reply(context.Background(), identityFor(rbac.RoleJoueur, &memberID), ReplyParams{
		ParentID: parent.ID,
		Contenu:  "Toujours pas de réponse?",
	})

	require.NoError(t, err)
	assert.Equal(t, StatutEnCours, updatedStatut)
}

func TestService_Reply_PlayerCannotJoinForeignThread(t *testing.T) {
	owner := uuid.New()
	intruder := uuid.New()
	parent := &Message{ID: uuid.New(), MembreID: &owner, Sujet: "Privé", TypeMessage: TypeQuestion}

	repo := &mockRepo{
		getFn: func(_ context.Context, _ uuid.UUID) (*Message, error) { return parent, nil },
	}
	svc := NewService(repo, NewHub())

	_, err := svc.Reply(context.Background(), identityFor(rbac.RoleJoueur, &intruder), ReplyParams{
		ParentID: parent.ID,
		Contenu:  "Moi aussi",
	})

	assert.ErrorIs(t, err, auth.ErrForbidden)
}

func TestService_Reply_RejectsReplyToReply(t *testing.T) {
	rootID := uuid.New()
	child := &Message{ID: uuid.New(), ParentID: &rootID, Sujet: "Re: x", TypeMessage: TypeQuestion}

	repo := &mockRepo{
		getFn: func(_ context.Context, _ uuid.UUID) (*Message, error) { return child, nil },
	}
	svc := NewService(repo, NewHub())

	_, err := svc.Reply(context.Background(), identityFor(rbac.RoleTresorier, nil), ReplyParams{
		ParentID: child.ID,
		Contenu:  "nope",
	})

	assert.ErrorIs(t, err, ErrNotAThread)
}

func TestService_Threads_ScopesPlayersToTheirOwn(t *testing.T) {
	memberID := uuid.New()

	var gotScope *uuid.UUID
	repo := &mockRepo{
		listThreadsFn: func(_ context.Context, membreID *uuid.UUID) ([]*Thread, error) {
			gotScope = membreID
			return []*Thread{}, nil
		},
	}
	svc := NewService(repo, NewHub())

	_, err := svc.Threads(context.Background(), identityFor(rbac.RoleJoueur, &memberID))
	require.NoError(t, err)
	require.NotNil(t, gotScope)
	assert.Equal(t, memberID, *gotScope)

	_, err = svc.Threads(context.Background(), identityFor(rbac.RoleTresorier, nil))
	require.NoError(t, err)
	assert.Nil(t, gotScope)
}

func TestService_SetStatut(t *testing.T) {
	repo := &mockRepo{
		updateStatutFn: func(_ context.Context, _ uuid.UUID, _ Statut) error { return nil },
	}
	svc := NewService(repo, NewHub())

	err := svc.SetStatut(context.Background(), identityFor(rbac.RoleTresorier, nil), uuid.New(), StatutEnCours)
	assert.NoError(t, err)

	err = svc.SetStatut(context.Background(), identityFor(rbac.RoleBureau, nil), uuid.New(), StatutEnCours)
	assert.ErrorIs(t, err, auth.ErrForbidden)

	err = svc.SetStatut(context.Background(), identityFor(rbac.RoleTresorier, nil), uuid.New(), Statut("archived"))
	assert.Error(t, err)
}
