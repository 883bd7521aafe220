package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"toro-system/internal/dto"
	"toro-system/internal/entities"
	apperrors "toro-system/pkg/errors"
)

const ordersTable = "orders"

// ErrOrderNumberTaken возвращается, когда вставка нарушила уникальность
// order_number: параллельный запрос успел занять вычисленный номер.
var ErrOrderNumberTaken = errors.New("номер заявки уже занят")

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var orderColumns = []string{
	"id", "order_number", "equipment_type", "equipment_id", "issue_description",
	"priority", "status", "requester_name", "department", "contact_phone",
	"contact_email", "completed_at", "created_at", "updated_at",
}

type OrderRepositoryInterface interface {
	GetOrders(ctx context.Context, filter dto.OrderFilterDTO) ([]entities.Order, uint64, error)
	FindOrder(ctx context.Context, id int64) (*entities.Order, error)
	FindOrderForUpdateInTx(ctx context.Context, q Querier, id int64) (*entities.Order, error)
	LatestOrderForUpdateInTx(ctx context.Context, q Querier, prefix string) (string, int64, error)
	CreateOrderInTx(ctx context.Context, q Querier, order *entities.Order) error
	UpdateOrderStatusInTx(ctx context.Context, q Querier, id int64, status string, completedAt null.Time) (*entities.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
}

type OrderRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewOrderRepository(storage *pgxpool.Pool, logger *zap.Logger) OrderRepositoryInterface {
	return &OrderRepository{storage: storage, logger: logger}
}

func scanOrder(row pgx.Row) (*entities.Order, error) {
	var o entities.Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.EquipmentType, &o.EquipmentID, &o.IssueDescription,
		&o.Priority, &o.Status, &o.RequesterName, &o.Department, &o.ContactPhone,
		&o.ContactEmail, &o.CompletedAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования заявки: %w", err)
	}
	return &o, nil
}

func applyOrderFilter(builder sq.SelectBuilder, filter dto.OrderFilterDTO) sq.SelectBuilder {
	if filter.Priority != nil {
		builder = builder.Where(sq.Eq{"priority": *filter.Priority})
	}
	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"status": *filter.Status})
	}
	if filter.Department != nil {
		builder = builder.Where(sq.Eq{"department": *filter.Department})
	}
	return builder
}

func (r *OrderRepository) GetOrders(ctx context.Context, filter dto.OrderFilterDTO) ([]entities.Order, uint64, error) {
	countQuery, countArgs, err := applyOrderFilter(psql.Select("COUNT(*)").From(ordersTable), filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки count-запроса: %w", err)
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета заявок: %w", err)
	}

	listQuery, listArgs, err := applyOrderFilter(
		psql.Select(orderColumns...).From(ordersTable).OrderBy("created_at DESC"),
		filter,
	).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса списка: %w", err)
	}

	rows, err := r.storage.Query(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения списка заявок: %w", err)
	}
	defer rows.Close()

	orders := make([]entities.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ошибка чтения списка заявок: %w", err)
	}
	return orders, total, nil
}

func (r *OrderRepository) FindOrder(ctx context.Context, id int64) (*entities.Order, error) {
	query, args, err := psql.Select(orderColumns...).From(ordersTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса заявки: %w", err)
	}
	return scanOrder(r.storage.QueryRow(ctx, query, args...))
}

// FindOrderForUpdateInTx читает заявку с блокировкой строки,
// чтобы переход статуса не гонялся с параллельным обновлением.
func (r *OrderRepository) FindOrderForUpdateInTx(ctx context.Context, q Querier, id int64) (*entities.Order, error) {
	query, args, err := psql.Select(orderColumns...).From(ordersTable).
		Where(sq.Eq{"id": id}).Suffix("FOR UPDATE").ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса заявки: %w", err)
	}
	return scanOrder(q.QueryRow(ctx, query, args...))
}

// LatestOrderForUpdateInTx возвращает наибольший номер заявки с данным
// префиксом года и id его строки, блокируя строку до конца транзакции.
// Пустая строка означает, что заявок за этот год еще нет.
func (r *OrderRepository) LatestOrderForUpdateInTx(ctx context.Context, q Querier, prefix string) (string, int64, error) {
	const query = `
		SELECT order_number, id FROM orders
		WHERE order_number LIKE $1
		ORDER BY order_number DESC
		LIMIT 1
		FOR UPDATE`

	var (
		number string
		id     int64
	)
	err := q.QueryRow(ctx, query, prefix+"%").Scan(&number, &id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", 0, nil
	}
	if err != nil {
		return "", 0, fmt.Errorf("ошибка поиска последнего номера заявки: %w", err)
	}
	return number, id, nil
}

func (r *OrderRepository) CreateOrderInTx(ctx context.Context, q Querier, order *entities.Order) error {
	const query = `
		INSERT INTO orders (
			order_number, equipment_type, equipment_id, issue_description,
			priority, status, requester_name, department, contact_phone, contact_email
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`

	err := q.QueryRow(ctx, query,
		order.OrderNumber, order.EquipmentType, order.EquipmentID, order.IssueDescription,
		order.Priority, order.Status, order.RequesterName, order.Department,
		order.ContactPhone, order.ContactEmail,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)

	if isUniqueViolation(err) {
		r.logger.Warn("коллизия номера заявки при вставке", zap.String("order_number", order.OrderNumber))
		return ErrOrderNumberTaken
	}
	if err != nil {
		return fmt.Errorf("ошибка создания заявки: %w", err)
	}
	return nil
}

func (r *OrderRepository) UpdateOrderStatusInTx(ctx context.Context, q Querier, id int64, status string, completedAt null.Time) (*entities.Order, error) {
	query := fmt.Sprintf(`
		UPDATE orders
		SET status = $1, completed_at = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING %s`, strings.Join(orderColumns, ", "))

	return scanOrder(q.QueryRow(ctx, query, status, completedAt, id))
}

func (r *OrderRepository) DeleteOrder(ctx context.Context, id int64) error {
	tag, err := r.storage.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления заявки: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
