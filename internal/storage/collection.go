package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/campushub/internal/models"
)

// Schema описывает, как ресурс R раскладывается по колонкам таблицы.
//
// Колонки id, user_id, created_at и updated_at общие для всех ресурсов и в Columns не входят.
// Fields возвращает указатели на поля R в порядке Columns: они же служат
// аргументами INSERT/UPDATE и приёмниками Scan.
type Schema[R models.Record] struct {
	Table   string
	Columns []string
	OrderBy string
	Filters []string
	New     func() R
	Fields  func(R) []any
}

// Collection — хранилище ресурсов одного вида, привязанных к владельцу.
// Выборка списка всегда фильтруется по user_id в самом запросе.
type Collection[R models.Record] struct {
	storage *Storage
	schema  Schema[R]

	selectCols  string
	insertQuery string
	updateQuery string
}

// NewCollection собирает запросы для схемы один раз при создании.
func NewCollection[R models.Record](storage *Storage, schema Schema[R]) *Collection[R] {
	n := len(schema.Columns)

	placeholders := make([]string, 0, n+1)
	for i := 1; i <= n+1; i++ {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i))
	}
	sets := make([]string, 0, n)
	for i, col := range schema.Columns {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i+2))
	}

	return &Collection[R]{
		storage:    storage,
		schema:     schema,
		selectCols: "id, user_id, " + strings.Join(schema.Columns, ", ") + ", created_at, updated_at",
		insertQuery: fmt.Sprintf(`INSERT INTO %s (user_id, %s) VALUES (%s) RETURNING id, created_at, updated_at`,
			schema.Table, strings.Join(schema.Columns, ", "), strings.Join(placeholders, ", ")),
		updateQuery: fmt.Sprintf(`UPDATE %s SET %s, updated_at = NOW() WHERE id = $1 RETURNING updated_at`,
			schema.Table, strings.Join(sets, ", ")),
	}
}

func (c *Collection[R]) targets(r R) []any {
	m := r.Meta()
	t := make([]any, 0, len(c.schema.Columns)+4)
	t = append(t, &m.ID, &m.Owner)
	t = append(t, c.schema.Fields(r)...)
	return append(t, &m.CreatedAt, &m.UpdatedAt)
}

// Create вставляет запись и заполняет её ID и метки времени.
func (c *Collection[R]) Create(ctx context.Context, r R) error {
	op := "storage." + c.schema.Table + ".Create"
	m := r.Meta()
	args := append([]any{m.Owner}, c.schema.Fields(r)...)
	if err := c.storage.DB.QueryRowContext(ctx, c.insertQuery, args...).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Get возвращает запись по ID независимо от владельца; проверка доступа — на стороне сервиса.
func (c *Collection[R]) Get(ctx context.Context, id string) (R, error) {
	op := "storage." + c.schema.Table + ".Get"
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, c.selectCols, c.schema.Table)

	r := c.schema.New()
	if err := c.storage.DB.QueryRowContext(ctx, query, id).Scan(c.targets(r)...); err != nil {
		var zero R
		if notFound(err) {
			return zero, fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return zero, fmt.Errorf("%s: %w", op, err)
	}
	return r, nil
}

// List возвращает записи владельца owner в порядке Schema.OrderBy.
// filter задаёт условия равенства; учитываются только колонки из Schema.Filters.
func (c *Collection[R]) List(ctx context.Context, owner string, filter map[string]string) ([]R, error) {
	op := "storage." + c.schema.Table + ".List"

	var sb strings.Builder
	fmt.Fprintf(&sb, `SELECT %s FROM %s WHERE user_id = $1`, c.selectCols, c.schema.Table)
	args := []any{owner}
	for _, col := range c.schema.Filters {
		val, ok := filter[col]
		if !ok {
			continue
		}
		args = append(args, val)
		fmt.Fprintf(&sb, ` AND %s = $%d`, col, len(args))
	}
	fmt.Fprintf(&sb, ` ORDER BY %s`, c.schema.OrderBy)

	rows, err := c.storage.DB.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]R, 0)
	for rows.Next() {
		r := c.schema.New()
		if err := rows.Scan(c.targets(r)...); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// Update перезаписывает поля данных записи и обновляет updated_at.
// Владелец и дата создания запросом не затрагиваются.
func (c *Collection[R]) Update(ctx context.Context, r R) error {
	op := "storage." + c.schema.Table + ".Update"
	m := r.Meta()
	args := append([]any{m.ID}, c.schema.Fields(r)...)
	if err := c.storage.DB.QueryRowContext(ctx, c.updateQuery, args...).Scan(&m.UpdatedAt); err != nil {
		if notFound(err) {
			return fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete безвозвратно удаляет запись.
func (c *Collection[R]) Delete(ctx context.Context, id string) error {
	op := "storage." + c.schema.Table + ".Delete"
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, c.schema.Table)

	res, err := c.storage.DB.ExecContext(ctx, query, id)
	if err != nil {
		if notFound(err) {
			return fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return nil
}
