package models

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepository(t *testing.T) (*PostgresRepository, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every pooled connection would otherwise get its own in-memory database
	sqlDB.SetMaxOpenConns(1)

	repo := NewRepository(db)
	require.NoError(t, repo.Migrate())
	t.Cleanup(func() { _ = repo.Close() })
	return repo, db
}

type fixture struct {
	lawyer     *Lawyer
	client     *Client
	scheduling *Scheduling
}

func seedScheduling(t *testing.T, db *gorm.DB) fixture {
	t.Helper()

	lawyer := &Lawyer{
		User:       &User{Email: "ana.souza@adv.com"},
		Name:       "Ana Souza",
		Authorized: true,
		Address:    &Address{City: "Campinas", State: "SP"},
	}
	require.NoError(t, db.Create(lawyer).Error)

	client := &Client{User: &User{Email: "joao@mail.com"}, Name: "João Lima"}
	require.NoError(t, db.Create(client).Error)

	scheduling := &Scheduling{
		ClientID:      &client.ID,
		LawyerID:      lawyer.ID,
		ClientContact: "joao.contato@mail.com",
		ScheduledAt:   time.Date(2026, 10, 20, 14, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(scheduling).Error)

	return fixture{lawyer: lawyer, client: client, scheduling: scheduling}
}

func TestFindUserLoadsProfiles(t *testing.T) {
	repo, db := newTestRepository(t)
	fx := seedScheduling(t, db)
	ctx := context.Background()

	user, err := repo.FindUser(ctx, fx.lawyer.UserID)
	require.NoError(t, err)
	require.NotNil(t, user.Lawyer)
	assert.Nil(t, user.Client)
	assert.Equal(t, "Ana Souza", user.Lawyer.Name)

	_, err = repo.FindUser(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindOpenScheduling(t *testing.T) {
	repo, db := newTestRepository(t)
	fx := seedScheduling(t, db)
	ctx := context.Background()

	scheduling, err := repo.FindOpenScheduling(ctx, fx.scheduling.ID)
	require.NoError(t, err)
	require.NotNil(t, scheduling.Lawyer)
	require.NotNil(t, scheduling.Lawyer.User)
	require.NotNil(t, scheduling.Client)
	assert.Equal(t, "ana.souza@adv.com", scheduling.Lawyer.User.Email)
	assert.Equal(t, "João Lima", scheduling.Client.Name)

	require.NoError(t, db.Model(&Scheduling{}).Where("id = ?", fx.scheduling.ID).Update("closed", true).Error)
	_, err = repo.FindOpenScheduling(ctx, fx.scheduling.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCloseSchedulingCommits(t *testing.T) {
	repo, db := newTestRepository(t)
	fx := seedScheduling(t, db)
	closedAt := time.Date(2026, 10, 21, 9, 30, 0, 0, time.UTC)

	called := false
	err := repo.CloseScheduling(context.Background(), SchedulingClosure{
		SchedulingID:  fx.scheduling.ID,
		Justification: "Atendimento concluído com sucesso",
		Reason:        "Service ended",
		ClosedAt:      closedAt,
		MayReview:     &MayReview{LawyerID: fx.lawyer.ID, ClientID: fx.client.ID},
	}, func(ctx context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)

	var stored Scheduling
	require.NoError(t, db.First(&stored, fx.scheduling.ID).Error)
	assert.True(t, stored.Closed)
	assert.Equal(t, "Service ended", stored.ClosureReason)
	assert.Equal(t, "Atendimento concluído com sucesso", stored.Justification)
	require.NotNil(t, stored.ClosedAt)
	assert.True(t, closedAt.Equal(*stored.ClosedAt))

	var grants []MayReview
	require.NoError(t, db.Find(&grants).Error)
	require.Len(t, grants, 1)
	assert.Equal(t, fx.lawyer.ID, grants[0].LawyerID)
	assert.Equal(t, fx.client.ID, grants[0].ClientID)

	err = repo.CloseScheduling(context.Background(), SchedulingClosure{SchedulingID: fx.scheduling.ID}, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCloseSchedulingRollsBackWhenWithinFails(t *testing.T) {
	repo, db := newTestRepository(t)
	fx := seedScheduling(t, db)
	boom := errors.New("smtp unavailable")

	err := repo.CloseScheduling(context.Background(), SchedulingClosure{
		SchedulingID:  fx.scheduling.ID,
		Justification: "Atendimento concluído com sucesso",
		Reason:        "Service ended",
		ClosedAt:      time.Now(),
		MayReview:     &MayReview{LawyerID: fx.lawyer.ID, ClientID: fx.client.ID},
	}, func(ctx context.Context) error {
		return boom
	})
	require.ErrorIs(t, err, boom)

	var stored Scheduling
	require.NoError(t, db.First(&stored, fx.scheduling.ID).Error)
	assert.False(t, stored.Closed)

	var grants int64
	require.NoError(t, db.Model(&MayReview{}).Count(&grants).Error)
	assert.Zero(t, grants)
}

func TestFindDivulgationWithMessages(t *testing.T) {
	repo, db := newTestRepository(t)
	fx := seedScheduling(t, db)
	ctx := context.Background()

	other := &Lawyer{User: &User{Email: "carlos@adv.com"}, Name: "Carlos Dias", Authorized: true}
	require.NoError(t, db.Create(other).Error)

	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	divulgation := &Divulgation{
		ClientID:     fx.client.ID,
		Title:        "Preciso de ajuda com inventário",
		Description:  "Partilha de bens",
		RegisteredAt: base,
		Messages: []Message{
			{LawyerID: fx.lawyer.ID, Text: "primeira", SentAt: base.Add(time.Hour)},
			{LawyerID: other.ID, Text: "de outro advogado", SentAt: base.Add(2 * time.Hour)},
			{LawyerID: fx.lawyer.ID, Text: "segunda", SentAt: base.Add(3 * time.Hour)},
		},
	}
	require.NoError(t, db.Create(divulgation).Error)

	got, err := repo.FindDivulgationWithMessages(ctx, divulgation.ID, fx.lawyer.ID)
	require.NoError(t, err)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "segunda", got.Messages[0].Text)
	assert.Equal(t, "primeira", got.Messages[1].Text)
	require.NotNil(t, got.Messages[0].Lawyer)
	assert.Equal(t, "Ana Souza", got.Messages[0].Lawyer.Name)
	require.NotNil(t, got.Client)
	assert.Equal(t, "João Lima", got.Client.Name)

	_, err = repo.FindDivulgationWithMessages(ctx, 404, fx.lawyer.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchLawyers(t *testing.T) {
	repo, db := newTestRepository(t)
	ctx := context.Background()

	family := &PracticeArea{Name: "Família"}
	labor := &PracticeArea{Name: "Trabalhista"}
	require.NoError(t, db.Create(family).Error)
	require.NoError(t, db.Create(labor).Error)

	ana := &Lawyer{
		User: &User{Email: "ana@adv.com"}, Name: "Ana Souza", Rating: 5, Authorized: true,
		Address: &Address{City: "São Paulo", State: "SP"},
		Areas:   []LawyerArea{{PracticeAreaID: family.ID}},
	}
	bruno := &Lawyer{
		User: &User{Email: "bruno@adv.com"}, Name: "Bruno Antunes", Rating: 4, Authorized: true,
		Address: &Address{City: "Campinas", State: "SP"},
		Areas:   []LawyerArea{{PracticeAreaID: labor.ID}},
	}
	hidden := &Lawyer{
		User: &User{Email: "hidden@adv.com"}, Name: "Ana Oculta", Rating: 5, Authorized: false,
		Address: &Address{City: "São Paulo", State: "SP"},
		Areas:   []LawyerArea{{PracticeAreaID: family.ID}},
	}
	for _, l := range []*Lawyer{ana, bruno, hidden} {
		require.NoError(t, db.Create(l).Error)
	}
	require.NoError(t, db.Create(&Review{LawyerID: ana.ID, ClientID: 1, Rating: 5}).Error)
	require.NoError(t, db.Create(&Review{LawyerID: ana.ID, ClientID: 2, Rating: 4}).Error)

	names := func(lawyers []Lawyer) []string {
		out := make([]string, 0, len(lawyers))
		for _, l := range lawyers {
			out = append(out, l.Name)
		}
		return out
	}

	all, err := repo.SearchLawyers(ctx, NewLawyerFilter())
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana Souza", "Bruno Antunes"}, names(all))
	assert.Equal(t, int64(2), all[0].ReviewCount)
	assert.Zero(t, all[1].ReviewCount)
	require.NotNil(t, all[0].Address)
	assert.Equal(t, "SP", all[0].Address.State)

	tests := []struct {
		name   string
		filter *LawyerFilter
		want   []string
	}{
		{"name case insensitive", NewLawyerFilter().NameContains("ANA"), []string{"Ana Souza"}},
		{"city substring", NewLawyerFilter().CityContains("campi"), []string{"Bruno Antunes"}},
		{"state exact", NewLawyerFilter().StateEquals("SP"), []string{"Ana Souza", "Bruno Antunes"}},
		{"state mismatch", NewLawyerFilter().StateEquals("RJ"), []string{}},
		{"rating exact", NewLawyerFilter().RatingEquals(4), []string{"Bruno Antunes"}},
		{"practice area", NewLawyerFilter().PracticeArea(int(family.ID)), []string{"Ana Souza"}},
		{"combined", NewLawyerFilter().NameContains("a").RatingEquals(5).StateEquals("SP"), []string{"Ana Souza"}},
		{"wildcards are literal", NewLawyerFilter().NameContains("%"), []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.SearchLawyers(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}
}
