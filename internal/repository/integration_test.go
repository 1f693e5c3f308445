package repository

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/confreg/regsvc/internal/attendee"
	"github.com/confreg/regsvc/internal/autosave"
	"github.com/confreg/regsvc/internal/domain"
	"github.com/confreg/regsvc/internal/payment"
	"github.com/confreg/regsvc/internal/repository/dao"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	// The repository tests run against a throwaway Postgres container.
	// `go test -short` skips them entirely.
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("could not construct docker pool: %v", err)
	}
	if err = pool.Client.Ping(); err != nil {
		log.Fatalf("could not connect to docker: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=regsvc_test",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}
	_ = resource.Expire(120)

	dsn := fmt.Sprintf("host=localhost port=%v user=test password=test dbname=regsvc_test sslmode=disable",
		resource.GetPort("5432/tcp"),
	)

	pool.MaxWait = 60 * time.Second
	if err = pool.Retry(func() error {
		db, openErr := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if openErr != nil {
			return openErr
		}

		sqlDB, pingErr := db.DB()
		if pingErr != nil {
			return pingErr
		}
		if pingErr = sqlDB.Ping(); pingErr != nil {
			return pingErr
		}

		testDB = db

		return nil
	}); err != nil {
		log.Fatalf("could not connect to postgres: %v", err)
	}

	if err = dao.InitTables(testDB); err != nil {
		log.Fatalf("could not migrate tables: %v", err)
	}

	code := m.Run()

	if err = pool.Purge(resource); err != nil {
		log.Fatalf("could not purge postgres container: %v", err)
	}

	os.Exit(code)
}

func testDto(nickname string) attendee.Dto {
	return attendee.Dto{
		Nickname:        nickname,
		FirstName:       "Maria",
		LastName:        "Mustermann",
		Street:          "Teststrasse 24",
		Zip:             "12345",
		City:            "Berlin",
		Country:         "DE",
		SpokenLanguages: "de,en",
		Email:           "maria@example.com",
		Phone:           "+49 111 222333",
		Birthday:        "1995-04-12",
		Flags:           "terms-accepted",
		PackagesList: []domain.PackageInfo{
			{Name: "attendance", Count: 1},
			{Name: "room-none", Count: 1},
		},
	}
}

func TestAttendeeRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	repo := NewAttendeeRepository(dao.NewAttendeeDAO(testDB))

	created, err := repo.Create(ctx, 100, testDto("Foxface"), domain.StatusNew)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, domain.StatusNew, created.Status)

	t.Run("duplicate owner is rejected", func(t *testing.T) {
		_, err := repo.Create(ctx, 100, testDto("Foxface"), domain.StatusNew)
		assert.ErrorIs(t, err, ErrAttendeeExists)
	})

	t.Run("find by owner round-trips the record", func(t *testing.T) {
		found, err := repo.FindByOwnerID(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, "Foxface", found.Dto.Nickname)
		assert.Equal(t, created.Dto.PackagesList, found.Dto.PackagesList)
	})

	t.Run("missing owner", func(t *testing.T) {
		_, err := repo.FindByOwnerID(ctx, 999)
		assert.ErrorIs(t, err, ErrAttendeeNotFound)
	})

	t.Run("update replaces the record", func(t *testing.T) {
		updated, err := repo.Update(ctx, created.ID, 100, testDto("Wolfpaw"), domain.StatusNew)
		require.NoError(t, err)
		assert.Equal(t, "Wolfpaw", updated.Dto.Nickname)

		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Wolfpaw", found.Dto.Nickname)
	})

	t.Run("update status", func(t *testing.T) {
		require.NoError(t, repo.UpdateStatus(ctx, created.ID, domain.StatusApproved))

		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusApproved, found.Status)
	})

	t.Run("update status of missing record", func(t *testing.T) {
		err := repo.UpdateStatus(ctx, 99999, domain.StatusApproved)
		assert.ErrorIs(t, err, ErrAttendeeNotFound)
	})
}

func TestDraftRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	repo := NewDraftRepository(dao.NewDraftDAO(testDB), "test-buster-1")

	data := autosave.DraftSaveData{
		RegistrationInfo: &autosave.SerializedRegistrationInfo{
			PreferredLocale: "de-DE",
			PersonalInfo: &autosave.SerializedPersonalInfo{
				Nickname:    "Foxface",
				DateOfBirth: "1995-04-12",
			},
		},
		LastSavedAt: "2026-02-01T10:00:00+01:00",
	}

	require.NoError(t, repo.Save(ctx, 200, data))

	t.Run("find round-trips the blob", func(t *testing.T) {
		found, err := repo.Find(ctx, 200)
		require.NoError(t, err)
		assert.Equal(t, data, found)
	})

	t.Run("save replaces the previous draft", func(t *testing.T) {
		updated := data
		updated.LastSavedAt = "2026-02-01T11:30:00+01:00"
		require.NoError(t, repo.Save(ctx, 200, updated))

		found, err := repo.Find(ctx, 200)
		require.NoError(t, err)
		assert.Equal(t, "2026-02-01T11:30:00+01:00", found.LastSavedAt)
	})

	t.Run("buster mismatch hides the draft", func(t *testing.T) {
		stale := NewDraftRepository(dao.NewDraftDAO(testDB), "test-buster-2")

		_, err := stale.Find(ctx, 200)
		assert.ErrorIs(t, err, ErrDraftNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, 200))

		_, err := repo.Find(ctx, 200)
		assert.ErrorIs(t, err, ErrDraftNotFound)

		// Deleting an absent draft is not an error.
		require.NoError(t, repo.Delete(ctx, 200))
	})
}

func TestTransactionRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	repo := NewTransactionRepository(dao.NewTransactionDAO(testDB))

	due := payment.Transaction{
		DebitorID:             300,
		TransactionIdentifier: "EF2026-000300-0001",
		TransactionType:       payment.TypeDue,
		Method:                payment.MethodInternal,
		Amount:                payment.Amount{Currency: "EUR", GrossCent: 16500, VatRate: 19},
		Status:                payment.StatusValid,
		DueDate:               "2026-02-14",
	}
	paid := payment.Transaction{
		DebitorID:             300,
		TransactionIdentifier: "EF2026-000300-0002",
		TransactionType:       payment.TypePayment,
		Method:                payment.MethodCredit,
		Amount:                payment.Amount{Currency: "EUR", GrossCent: 5000, VatRate: 19},
		Status:                payment.StatusValid,
	}

	_, err := repo.Create(ctx, due)
	require.NoError(t, err)
	_, err = repo.Create(ctx, paid)
	require.NoError(t, err)

	found, err := repo.FindByDebitorID(ctx, 300)
	require.NoError(t, err)
	require.Len(t, found, 2)

	assert.Equal(t, "EF2026-000300-0001", found[0].TransactionIdentifier)
	assert.Equal(t, payment.TypeDue, found[0].TransactionType)
	assert.Equal(t, int64(16500), found[0].Amount.GrossCent)
	assert.NotEmpty(t, found[0].CreationDate)

	assert.Equal(t, int64(5000), payment.TotalPaid(found))
	assert.Equal(t, int64(11500), payment.OutstandingDues(found))

	empty, err := repo.FindByDebitorID(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
