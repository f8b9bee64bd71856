package sqlstore

import (
	"strings"

	"github.com/julianstephens/bodyclock/internal/models"
)

// updateBuilder maps present patch fields to column assignments.
type updateBuilder struct {
	table string
	sets  []string
	args  []any
}

func newUpdate(table string) *updateBuilder {
	return &updateBuilder{table: table}
}

func (b *updateBuilder) set(column string, value any) {
	b.sets = append(b.sets, column+" = ?")
	b.args = append(b.args, value)
}

func (b *updateBuilder) empty() bool {
	return len(b.sets) == 0
}

func (b *updateBuilder) build(where string, whereArgs ...any) (string, []any) {
	query := "UPDATE " + b.table + " SET " + strings.Join(b.sets, ", ") + " WHERE " + where
	return query, append(append([]any{}, b.args...), whereArgs...)
}

func setOptional[T any](b *updateBuilder, column string, opt models.Optional[T]) {
	if v, ok := opt.Get(); ok {
		b.set(column, v)
	}
}

// setNullable stores an empty string as NULL.
func setNullable(b *updateBuilder, column string, opt models.Optional[string]) {
	if v, ok := opt.Get(); ok {
		b.set(column, nullString(v))
	}
}

func setNullableInt(b *updateBuilder, column string, opt models.Optional[*int]) {
	if v, ok := opt.Get(); ok {
		b.set(column, nullInt(v))
	}
}
