package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// DBDiagnostic is what the Postgres driver reported, from either pgx or pq.
type DBDiagnostic struct {
	SQLState   string `json:"sqlstate,omitempty"`
	Constraint string `json:"constraint,omitempty"`
	Table      string `json:"table,omitempty"`
	Column     string `json:"column,omitempty"`
	Detail     string `json:"detail,omitempty"`
	Message    string `json:"message,omitempty"`
}

// ErrorDump flattens an error chain for logs. It is never sent to clients.
type ErrorDump struct {
	Message string        `json:"message"`
	Code    Code          `json:"code,omitempty"`
	Chain   []string      `json:"chain,omitempty"`
	DB      *DBDiagnostic `json:"db,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}
	d := ErrorDump{Message: err.Error(), DB: dbDiagnostic(err)}
	if typed := As(err); typed != nil {
		d.Code = typed.Code()
	}
	for e := err; e != nil; e = stdErrors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}
	return d
}

// Fields renders the dump as logger fields, omitting absent driver data.
func (d ErrorDump) Fields() map[string]any {
	fields := map[string]any{
		"error":       d.Message,
		"error_chain": d.Chain,
	}
	if d.Code != "" {
		fields["error_code"] = d.Code
	}
	if d.DB != nil {
		fields["db_sqlstate"] = d.DB.SQLState
		fields["db_constraint"] = d.DB.Constraint
		fields["db_table"] = d.DB.Table
		fields["db_detail"] = d.DB.Detail
	}
	return fields
}

func dbDiagnostic(err error) *DBDiagnostic {
	var pgxErr *pgconn.PgError
	if stdErrors.As(err, &pgxErr) {
		return &DBDiagnostic{
			SQLState:   pgxErr.Code,
			Constraint: pgxErr.ConstraintName,
			Table:      pgxErr.TableName,
			Column:     pgxErr.ColumnName,
			Detail:     pgxErr.Detail,
			Message:    pgxErr.Message,
		}
	}
	var pqErr *pq.Error
	if stdErrors.As(err, &pqErr) {
		return &DBDiagnostic{
			SQLState:   string(pqErr.Code),
			Constraint: pqErr.Constraint,
			Table:      pqErr.Table,
			Column:     pqErr.Column,
			Detail:     pqErr.Detail,
			Message:    pqErr.Message,
		}
	}
	return nil
}
