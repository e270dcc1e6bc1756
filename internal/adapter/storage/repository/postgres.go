package repository

import (
	"context"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/govalues/decimal"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/zishop/zishop/internal/adapter/storage"
	"github.com/zishop/zishop/internal/core/domain"
	"github.com/zishop/zishop/internal/core/port"
)

var orderColumns = []string{
	"id", "number", "hotel_id", "merchant_id", "client_id", "items",
	"total_amount", "status", "picked_up", "picked_up_at",
	"confirmed_at", "delivered_at", "estimated_delivery", "delivery_notes",
	"merchant_commission", "zishop_commission", "hotel_commission",
	"created_at", "updated_at", "version",
}

type Repository struct {
	db *storage.DB
}

func NewRepository(db *storage.DB) (*Repository, error) {
	return &Repository{db: db}, nil
}

func (r *Repository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	statement := r.db.QueryBuilder.
		Insert("users").
		Columns("login", "password", "role").
		Values(user.Login, user.Password, user.Role).
		Suffix("returning id")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&user.ID)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, domain.ErrConflictingData
		}
		return nil, err
	}

	return user, nil
}

func (r *Repository) GetUserByLogin(ctx context.Context, login string) (*domain.User, error) {
	statement := r.db.QueryBuilder.
		Select("id", "login", "password", "role").
		From("users").
		Where(sq.Eq{"login": login})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	user := domain.User{}

	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&user.ID,
		&user.Login,
		&user.Password,
		&user.Role,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}

	return &user, nil
}

func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return nil, err
	}

	statement := r.db.QueryBuilder.
		Insert("orders").
		Columns("number", "hotel_id", "merchant_id", "client_id", "items",
			"total_amount", "status", "picked_up", "delivery_notes",
			"created_at", "updated_at", "version").
		Values(order.Number, order.HotelID, order.MerchantID, order.ClientID, items,
			order.TotalAmount, order.Status, order.PickedUp, order.DeliveryNotes,
			order.CreatedAt, order.UpdatedAt, order.Version).
		Suffix("returning id")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&order.ID)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, domain.ErrConflictingData
		}
		return nil, err
	}

	return order, nil
}

func (r *Repository) ReadOrder(ctx context.Context, number string) (*domain.Order, error) {
	statement := r.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"number": number})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	return scanOrder(r.db.QueryRow(ctx, sql, args...))
}

// UpdateOrder loads the order under a row lock, applies updateFn and writes
// the result back. The lock plus the version check serialize concurrent
// transitions on the same order, so the workflow engine always sees the
// current status as its precondition.
func (r *Repository) UpdateOrder(ctx context.Context, number string, updateFn port.UpdateOrderFn) (*domain.Order, error) {
	var updated *domain.Order

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		statement := r.db.QueryBuilder.
			Select(orderColumns...).
			From("orders").
			Where(sq.Eq{"number": number}).
			Suffix("for update")

		sql, args, err := statement.ToSql()
		if err != nil {
			return err
		}

		order, err := scanOrder(tx.QueryRow(ctx, sql, args...))
		if err != nil {
			return err
		}

		oldVersion := order.Version
		if err := updateFn(order); err != nil {
			return err
		}
		order.Version = oldVersion + 1

		items, err := json.Marshal(order.Items)
		if err != nil {
			return err
		}

		update := r.db.QueryBuilder.
			Update("orders").
			Set("status", order.Status).
			Set("picked_up", order.PickedUp).
			Set("picked_up_at", order.PickedUpAt).
			Set("confirmed_at", order.ConfirmedAt).
			Set("delivered_at", order.DeliveredAt).
			Set("estimated_delivery", order.EstimatedDelivery).
			Set("delivery_notes", order.DeliveryNotes).
			Set("merchant_commission", toNullDecimal(order.MerchantCommission)).
			Set("zishop_commission", toNullDecimal(order.ZishopCommission)).
			Set("hotel_commission", toNullDecimal(order.HotelCommission)).
			Set("items", items).
			Set("updated_at", order.UpdatedAt).
			Set("version", order.Version).
			Where(sq.Eq{"number": number, "version": oldVersion})

		sql, args, err = update.ToSql()
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrConflictingData
		}

		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *Repository) ListOrdersByClient(ctx context.Context, clientID uint64) ([]*domain.Order, error) {
	return r.listOrders(ctx, sq.Eq{"client_id": clientID})
}

func (r *Repository) ListOrdersByMerchant(ctx context.Context, merchantID uint64) ([]*domain.Order, error) {
	return r.listOrders(ctx, sq.Eq{"merchant_id": merchantID})
}

func (r *Repository) ListOrdersByHotel(ctx context.Context, hotelID uint64) ([]*domain.Order, error) {
	return r.listOrders(ctx, sq.Eq{"hotel_id": hotelID})
}

func (r *Repository) ListOrdersByStatus(ctx context.Context, statuses []domain.OrderStatus) ([]*domain.Order, error) {
	return r.listOrders(ctx, sq.Eq{"status": statuses})
}

func (r *Repository) listOrders(ctx context.Context, where sq.Eq) ([]*domain.Order, error) {
	statement := r.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		Where(where).
		OrderBy("created_at desc")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, order)
	}

	err = rows.Err()
	if err != nil {
		return nil, err
	}

	return list, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	order := domain.Order{}

	var clientID *int64
	var items []byte
	var pickedUpAt, confirmedAt, deliveredAt, estimatedDelivery *time.Time
	var merchantCommission, zishopCommission, hotelCommission decimal.NullDecimal

	err := row.Scan(
		&order.ID,
		&order.Number,
		&order.HotelID,
		&order.MerchantID,
		&clientID,
		&items,
		&order.TotalAmount,
		&order.Status,
		&order.PickedUp,
		&pickedUpAt,
		&confirmedAt,
		&deliveredAt,
		&estimatedDelivery,
		&order.DeliveryNotes,
		&merchantCommission,
		&zishopCommission,
		&hotelCommission,
		&order.CreatedAt,
		&order.UpdatedAt,
		&order.Version,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}

	if clientID != nil {
		id := uint64(*clientID)
		order.ClientID = &id
	}
	if err := json.Unmarshal(items, &order.Items); err != nil {
		return nil, err
	}
	order.PickedUpAt = pickedUpAt
	order.ConfirmedAt = confirmedAt
	order.DeliveredAt = deliveredAt
	order.EstimatedDelivery = estimatedDelivery
	order.MerchantCommission = fromNullDecimal(merchantCommission)
	order.ZishopCommission = fromNullDecimal(zishopCommission)
	order.HotelCommission = fromNullDecimal(hotelCommission)

	return &order, nil
}

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func fromNullDecimal(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	value := d.Decimal
	return &value
}
