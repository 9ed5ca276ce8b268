package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// PostgresDetail is what either postgres driver reported for a failed
// statement.
type PostgresDetail struct {
	SQLState   string
	Message    string
	Detail     string
	Table      string
	Column     string
	Constraint string
}

// ErrorDump is the log view of an error: the coded part, every wrapped layer
// and the postgres report when the chain reached the database.
type ErrorDump struct {
	Message    string
	Code       Code
	HTTPStatus int
	Chain      []string
	Postgres   *PostgresDetail
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}
	d := ErrorDump{Message: err.Error(), Postgres: postgresDetail(err)}
	if te := As(err); te != nil {
		d.Code = te.Code()
		d.HTTPStatus = MetadataFor(te.Code()).HTTPStatus
	}
	for layer := err; layer != nil; layer = errors.Unwrap(layer) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", layer, layer))
	}
	return d
}

// postgresDetail covers pgx, used by the gorm postgres dialector, and lib/pq
// for callers on database/sql.
func postgresDetail(err error) *PostgresDetail {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return &PostgresDetail{
			SQLState:   pgxErr.Code,
			Message:    pgxErr.Message,
			Detail:     pgxErr.Detail,
			Table:      pgxErr.TableName,
			Column:     pgxErr.ColumnName,
			Constraint: pgxErr.ConstraintName,
		}
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &PostgresDetail{
			SQLState:   string(pqErr.Code),
			Message:    pqErr.Message,
			Detail:     pqErr.Detail,
			Table:      pqErr.Table,
			Column:     pqErr.Column,
			Constraint: pqErr.Constraint,
		}
	}
	return nil
}

// Fields renders the dump as log fields; empty values are left out.
func (d ErrorDump) Fields() map[string]any {
	fields := map[string]any{
		"error":       d.Message,
		"error_chain": d.Chain,
	}
	if d.Code != "" {
		fields["error_code"] = d.Code
	}
	if d.HTTPStatus != 0 {
		fields["http_status"] = d.HTTPStatus
	}
	if pg := d.Postgres; pg != nil {
		fields["pg_code"] = pg.SQLState
		fields["pg_message"] = pg.Message
		for key, value := range map[string]string{
			"pg_detail":     pg.Detail,
			"pg_table":      pg.Table,
			"pg_column":     pg.Column,
			"pg_constraint": pg.Constraint,
		} {
			if value != "" {
				fields[key] = value
			}
		}
	}
	return fields
}
