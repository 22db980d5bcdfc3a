package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/almoxerife-api/internal/domain"
)

func TestPgCodes(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isCheckViolation(&pgconn.PgError{Code: "23514"}))
	assert.True(t, isOutOfRange(&pgconn.PgError{Code: "22003"}))
	assert.False(t, isUniqueViolation(errors.New("23505 en el texto no cuenta")))
}

func TestStorageErr_ConservaCausa(t *testing.T) {
	cause := errors.New("connection reset")
	err := storageErr("insert recebimento", cause)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.ErrorIs(t, err, cause)
}

func TestWhereBuilder(t *testing.T) {
	var w whereBuilder
	assert.Equal(t, "", w.clause())

	w.add("p.categoria = ?", "EPI")
	w.add("(p.nome ILIKE ? OR p.descricao ILIKE ?)", "%luva%")
	lim := w.arg(10)

	assert.Equal(t, " WHERE p.categoria = $1 AND (p.nome ILIKE $2 OR p.descricao ILIKE $2)", w.clause())
	assert.Equal(t, "$3", lim)
	assert.Equal(t, []any{"EPI", "%luva%", 10}, w.args)
}
