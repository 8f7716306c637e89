package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Stevy-aimery/pantheres-finance/internal/auth"
	"github.com/Stevy-aimery/pantheres-finance/internal/rbac"
	"github.com/Stevy-aimery/pantheres-finance/internal/transaction"
)

var tresorier = &auth.Identity{Email: "tresorier@club.ma", Role: rbac.RoleTresorier}

func TestService_Create(t *testing.T) {
	type args struct {
		identity *auth.Identity
		params   transaction.CreateParams
	}

	type testCase struct {
		name       string
		args       args
		setupMock  func(m *transaction.MockRepository)
		wantErr    bool
		wantEntree int64
		wantSortie int64
	}

	tests := []testCase{
		{
			name: "RecetteFillsEntree",
			args: args{
				identity: tresorier,
				params: transaction.CreateParams{
					Date:         time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC),
					Type:         transaction.TypeRecette,
					Categorie:    "Cotisations",
					Libelle:      "Cotisation octobre",
					Montant:      250,
					ModePaiement: "Espèces",
				},
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						tx.ID = uuid.New()
						tx.CreatedAt = time.Now()
						return nil
					})
			},
			wantEntree: 250,
		},
		{
			name: "DepenseFillsSortie",
			args: args{
				identity: tresorier,
				params: transaction.CreateParams{
					Date:         time.Date(2025, 11, 12, 0, 0, 0, 0, time.UTC),
					Type:         transaction.TypeDepense,
					Categorie:    "Transport",
					Libelle:      "Déplacement Casablanca",
					Montant:      1200,
					ModePaiement: "Virement",
				},
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantSortie: 1200,
		},
		{
			name: "JoueurDenied",
			args: args{
				identity: &auth.Identity{Email: "joueur@club.ma", Role: rbac.RoleJoueur},
				params: transaction.CreateParams{
					Date:         time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC),
					Type:         transaction.TypeRecette,
					Categorie:    "Cotisations",
					Libelle:      "Cotisation octobre",
					Montant:      250,
					ModePaiement: "Espèces",
				},
			},
			wantErr: true,
		},
		{
			name: "RejectsUnknownType",
			args: args{
				identity: tresorier,
				params: transaction.CreateParams{
					Date:         time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC),
					Type:         transaction.Type("Transfert"),
					Categorie:    "Divers",
					Libelle:      "n/a",
					Montant:      10,
					ModePaiement: "Espèces",
				},
			},
			wantErr: true,
		},
		{
			name: "RejectsZeroAmount",
			args: args{
				identity: tresorier,
				params: transaction.CreateParams{
					Date:         time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC),
					Type:         transaction.TypeRecette,
					Categorie:    "Cotisations",
					Libelle:      "Cotisation octobre",
					Montant:      0,
					ModePaiement: "Espèces",
				},
			},
			wantErr: true,
		},
		{
			name: "RepoError",
			args: args{
				identity: tresorier,
				params: transaction.CreateParams{
					Date:         time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC),
					Type:         transaction.TypeRecette,
					Categorie:    "Cotisations",
					Libelle:      "Cotisation octobre",
					Montant:      250,
					ModePaiement: "Espèces",
				},
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := transaction.NewService(repo)
			got, err := svc.Create(context.Background(), tt.args.identity, tt.args.params)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantEntree, got.Entree)
			assert.Equal(t, tt.wantSortie, got.Sortie)
		})
	}
}

func TestService_Update_SwapsDirection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	existing := &transaction.Transaction{
		ID:           id,
		Date:         time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC),
		Type:         transaction.TypeRecette,
		Categorie:    "Cotisations",
		Libelle:      "Cotisation octobre",
		Entree:       250,
		ModePaiement: "Espèces",
	}

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().GetTransaction(gomock.Any(), id).Return(existing, nil)
	repo.EXPECT().UpdateTransaction(gomock.Any(), gomock.Any()).Return(nil)

	svc := transaction.NewService(repo)
	got, err := svc.Update(context.Background(), tresorier, id, transaction.CreateParams{
		Date:         existing.Date,
		Type:         transaction.TypeDepense,
		Categorie:    "Matériel",
		Libelle:      "Ballons",
		Montant:      400,
		ModePaiement: "Espèces",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Entree)
	assert.Equal(t, int64(400), got.Sortie)
	assert.Equal(t, transaction.TypeDepense, got.Type)
}

func TestService_Delete_RequiresPermission(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	err := svc.Delete(context.Background(), &auth.Identity{Role: rbac.RoleBureau}, uuid.New())
	assert.ErrorIs(t, err, auth.ErrForbidden)
}

func TestTransaction_Montant(t *testing.T) {
	recette := &transaction.Transaction{Type: transaction.TypeRecette, Entree: 250}
	depense := &transaction.Transaction{Type: transaction.TypeDepense, Sortie: 1200}

	assert.Equal(t, int64(250), recette.Montant())
	assert.Equal(t, int64(1200), depense.Montant())
}
