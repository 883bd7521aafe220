package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"toro-system/internal/dto"
	"toro-system/internal/entities"
	"toro-system/migrations"
	"toro-system/pkg/constants"
	apperrors "toro-system/pkg/errors"
)

// Интеграционные тесты гоняются против живого PostgreSQL.
// Без TORO_TEST_DATABASE_URL весь пакет пропускается.
var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	dsn := os.Getenv("TORO_TEST_DATABASE_URL")
	if dsn == "" {
		fmt.Println("TORO_TEST_DATABASE_URL не задан, интеграционные тесты пропущены")
		os.Exit(0)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		fmt.Printf("не удалось открыть соединение для миграций: %v\n", err)
		os.Exit(1)
	}
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		fmt.Printf("не удалось выбрать диалект goose: %v\n", err)
		os.Exit(1)
	}
	if err := goose.Up(db, "."); err != nil {
		fmt.Printf("не удалось применить миграции: %v\n", err)
		os.Exit(1)
	}
	db.Close()

	testPool, err = pgxpool.New(context.Background(), dsn)
	if err != nil {
		fmt.Printf("не удалось подключиться к тестовой базе: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	testPool.Close()
	os.Exit(code)
}

func cleanOrders(t *testing.T) {
	t.Helper()
	_, err := testPool.Exec(context.Background(), "TRUNCATE orders RESTART IDENTITY")
	require.NoError(t, err)
}

func newTestRepo() OrderRepositoryInterface {
	return NewOrderRepository(testPool, zap.NewNop())
}

func seedOrder(t *testing.T, repo OrderRepositoryInterface, number string) *entities.Order {
	t.Helper()
	order := &entities.Order{
		OrderNumber:      number,
		Status:           constants.StatusCreated,
		EquipmentType:    "Конвейер",
		EquipmentID:      "CONV-017",
		IssueDescription: "Не крутится барабан",
		Priority:         "medium",
		RequesterName:    "Иванов И.И.",
		Department:       "Цех №3",
		ContactPhone:     "+7-900-123-45-67",
		ContactEmail:     "ivanov@example.com",
	}
	require.NoError(t, repo.CreateOrderInTx(context.Background(), testPool, order))
	return order
}

func TestOrderRepository_CreateAndFind(t *testing.T) {
	cleanOrders(t)
	repo := newTestRepo()

	created := seedOrder(t, repo, "TORO-2026-001")
	require.NotZero(t, created.ID)
	require.False(t, created.CreatedAt.IsZero())

	found, err := repo.FindOrder(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "TORO-2026-001", found.OrderNumber)
	assert.Equal(t, constants.StatusCreated, found.Status)
	assert.False(t, found.CompletedAt.Valid)
}

func TestOrderRepository_DuplicateNumber(t *testing.T) {
	cleanOrders(t)
	repo := newTestRepo()

	seedOrder(t, repo, "TORO-2026-001")

	dup := &entities.Order{
		OrderNumber:      "TORO-2026-001",
		Status:           constants.StatusCreated,
		EquipmentType:    "Насос",
		EquipmentID:      "PUMP-001",
		IssueDescription: "Течь",
		Priority:         "high",
		RequesterName:    "Петров П.П.",
		Department:       "Цех №1",
		ContactPhone:     "+7-900-000-00-00",
		ContactEmail:     "petrov@example.com",
	}
	err := repo.CreateOrderInTx(context.Background(), testPool, dup)
	assert.ErrorIs(t, err, ErrOrderNumberTaken)
}

func TestOrderRepository_LatestOrderForUpdate(t *testing.T) {
	cleanOrders(t)
	repo := newTestRepo()
	ctx := context.Background()

	number, id, err := repo.LatestOrderForUpdateInTx(ctx, testPool, "TORO-2026-")
	require.NoError(t, err)
	assert.Empty(t, number)
	assert.Zero(t, id)

	seedOrder(t, repo, "TORO-2026-001")
	latest := seedOrder(t, repo, "TORO-2026-002")
	seedOrder(t, repo, "TORO-2025-009")

	number, id, err = repo.LatestOrderForUpdateInTx(ctx, testPool, "TORO-2026-")
	require.NoError(t, err)
	assert.Equal(t, "TORO-2026-002", number)
	assert.Equal(t, latest.ID, id)
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	cleanOrders(t)
	repo := newTestRepo()
	ctx := context.Background()

	created := seedOrder(t, repo, "TORO-2026-001")

	updated, err := repo.UpdateOrderStatusInTx(ctx, testPool, created.ID, constants.StatusInProgress, null.Time{})
	require.NoError(t, err)
	assert.Equal(t, constants.StatusInProgress, updated.Status)
	assert.False(t, updated.CompletedAt.Valid)

	completedAt := null.TimeFrom(time.Now().UTC())
	updated, err = repo.UpdateOrderStatusInTx(ctx, testPool, created.ID, constants.StatusCompleted, completedAt)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusCompleted, updated.Status)
	require.True(t, updated.CompletedAt.Valid)
	assert.WithinDuration(t, completedAt.Time, updated.CompletedAt.Time, time.Second)

	_, err = repo.UpdateOrderStatusInTx(ctx, testPool, 9999, constants.StatusInProgress, null.Time{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestOrderRepository_GetOrdersFilterAndOrder(t *testing.T) {
	cleanOrders(t)
	repo := newTestRepo()
	ctx := context.Background()

	first := seedOrder(t, repo, "TORO-2026-001")
	second := seedOrder(t, repo, "TORO-2026-002")

	_, err := repo.UpdateOrderStatusInTx(ctx, testPool, first.ID, constants.StatusInProgress, null.Time{})
	require.NoError(t, err)

	orders, total, err := repo.GetOrders(ctx, dto.OrderFilterDTO{})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), total)
	require.Len(t, orders, 2)
	// created_at DESC: вторая заявка свежее
	assert.Equal(t, second.ID, orders[0].ID)

	status := constants.StatusInProgress
	orders, total, err = repo.GetOrders(ctx, dto.OrderFilterDTO{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	require.Len(t, orders, 1)
	assert.Equal(t, first.ID, orders[0].ID)

	department := "Нет такого цеха"
	orders, total, err = repo.GetOrders(ctx, dto.OrderFilterDTO{Department: &department})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, orders)
}

func TestOrderRepository_Delete(t *testing.T) {
	cleanOrders(t)
	repo := newTestRepo()
	ctx := context.Background()

	created := seedOrder(t, repo, "TORO-2026-001")

	require.NoError(t, repo.DeleteOrder(ctx, created.ID))

	_, err := repo.FindOrder(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = repo.DeleteOrder(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTxManager_RollbackOnError(t *testing.T) {
	cleanOrders(t)
	repo := newTestRepo()
	manager := NewTxManager(testPool)
	ctx := context.Background()

	boom := fmt.Errorf("искусственный сбой")
	err := manager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		order := &entities.Order{
			OrderNumber:      "TORO-2026-100",
			Status:           constants.StatusCreated,
			EquipmentType:    "Конвейер",
			EquipmentID:      "CONV-017",
			IssueDescription: "Не крутится барабан",
			Priority:         "medium",
			RequesterName:    "Иванов И.И.",
			Department:       "Цех №3",
			ContactPhone:     "+7-900-123-45-67",
			ContactEmail:     "ivanov@example.com",
		}
		if err := repo.CreateOrderInTx(ctx, tx, order); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, total, err := repo.GetOrders(ctx, dto.OrderFilterDTO{})
	require.NoError(t, err)
	assert.Zero(t, total, "откат должен убрать вставку")
}
