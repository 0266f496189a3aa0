package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/jhoicas/backoffice-api/internal/tenancy"
)

const tenantColumn = "tenant_id"

// Table tabla que participa en una sentencia. TenantColumn vacío = tabla compartida.
type Table struct {
	Name         string
	Alias        string
	TenantColumn string
}

// OwnedTable declara una tabla cuyas filas pertenecen a un tenant (columna tenant_id).
func OwnedTable(name, alias string) Table {
	return Table{Name: name, Alias: alias, TenantColumn: tenantColumn}
}

// SharedTable declara una tabla sin discriminador de tenant.
func SharedTable(name, alias string) Table {
	return Table{Name: name, Alias: alias}
}

// Owned indica si la tabla se filtra por tenant.
func (t Table) Owned() bool { return t.TenantColumn != "" }

// Col califica una columna con el alias (o el nombre) de la tabla.
func (t Table) Col(column string) string {
	if t.Alias != "" {
		return t.Alias + "." + column
	}
	return t.Name + "." + column
}

func (t Table) ref() string {
	if t.Alias != "" {
		return t.Name + " " + t.Alias
	}
	return t.Name
}

// Cond predicado escrito con placeholders '?'; se renumeran a $n al construir la sentencia.
// Un '?' literal (ej. dentro de un LIKE o el operador jsonb) se escribe "??".
type Cond struct {
	SQL  string
	Args []any
}

// Where construye un predicado libre.
func Where(sql string, args ...any) Cond { return Cond{SQL: sql, Args: args} }

// Eq predicado de igualdad column = value.
func Eq(column string, value any) Cond { return Cond{SQL: column + " = ?", Args: []any{value}} }

// Join unión con otra tabla. Si la tabla es de un tenant, el filtro va en el ON
// (así también vale para LEFT JOIN).
type Join struct {
	Left  bool
	Table Table
	On    Cond
}

// InnerJoin atajo para Join.
func InnerJoin(t Table, on string, args ...any) Join {
	return Join{Table: t, On: Where(on, args...)}
}

// LeftJoin atajo para Join con LEFT JOIN.
func LeftJoin(t Table, on string, args ...any) Join {
	return Join{Left: true, Table: t, On: Where(on, args...)}
}

// Select consulta de lectura.
type Select struct {
	Columns []string
	From    Table
	Joins   []Join
	Where   []Cond
	GroupBy []string
	OrderBy string
	Limit   int
	Offset  int
	// ForUpdate bloquea las filas leídas hasta el fin de la transacción.
	ForUpdate bool
}

// Assign asignación de un UPDATE: Column = Expr (Expr con placeholders '?').
type Assign struct {
	Column string
	Expr   string
	Args   []any
}

// Set asigna un valor.
func Set(column string, value any) Assign { return Assign{Column: column, Expr: "?", Args: []any{value}} }

// SetExpr asigna una expresión, ej. SetExpr("stock", "stock + ?", delta).
func SetExpr(column, expr string, args ...any) Assign {
	return Assign{Column: column, Expr: expr, Args: args}
}

// Update modificación de filas. Row, si se indica, es la entidad que se escribe:
// su tenant debe coincidir con el de la fila guardada.
type Update struct {
	Table Table
	Set   []Assign
	Where []Cond
	Row   tenancy.Owned
}

// Delete borrado de filas.
type Delete struct {
	Table Table
	Where []Cond
}

// Insert alta de una fila. En tablas de tenant Row es obligatoria: Stamp le asigna
// el tenant y la columna tenant_id se añade aquí, nunca en Columns.
type Insert struct {
	Table   Table
	Row     tenancy.Owned
	Columns []string
	Values  []any
	Suffix  string // ej. "ON CONFLICT DO NOTHING"
}

// scope filtro por tenant aplicable a una sentencia.
type scope struct {
	mode   tenancy.Mode
	tenant tenancy.ID
}

// scopeFor resuelve el filtro para las tablas de la sentencia. En modo Enforced, tocar
// una tabla de tenant sin tenant vinculado es ErrTenantNotBound: nunca "ver todo" ni "ver nada".
func scopeFor(ctx context.Context, tables ...Table) (scope, error) {
	mode := tenancy.ModeFrom(ctx)
	if mode == tenancy.Bypassed {
		return scope{mode: mode}, nil
	}
	id, ok := tenancy.FromContext(ctx).Lookup()
	if !ok && slices.ContainsFunc(tables, Table.Owned) {
		return scope{}, tenancy.ErrTenantNotBound
	}
	return scope{mode: mode, tenant: id}, nil
}

func (s scope) predicate(t Table) (Cond, bool) {
	if s.mode == tenancy.Bypassed || !t.Owned() {
		return Cond{}, false
	}
	return Eq(t.Col(t.TenantColumn), s.tenant.String()), true
}

// psql genera sentencias con placeholders $n.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var plainColumn = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// placeholders cuenta los '?' que se convertirán en $n; "??" es un '?' literal.
func placeholders(sql string) int {
	n := 0
	for i := 0; i < len(sql); i++ {
		if sql[i] != '?' {
			continue
		}
		if i+1 < len(sql) && sql[i+1] == '?' {
			i++
			continue
		}
		n++
	}
	return n
}

func checkArgs(sql string, args []any) error {
	if n := placeholders(sql); n != len(args) {
		return fmt.Errorf("postgres: predicado %q espera %d argumentos, recibió %d", sql, n, len(args))
	}
	return nil
}

// columnName normaliza la columna de un SET o INSERT: sin espacios, sin comillas y en
// minúsculas. Cualquier grafía de tenant_id es inmutable; solo se aceptan identificadores simples.
func columnName(t Table, column string) (string, error) {
	c := strings.TrimSpace(column)
	if len(c) >= 2 && c[0] == '"' && c[len(c)-1] == '"' {
		c = c[1 : len(c)-1]
	}
	c = strings.ToLower(c)
	if t.Owned() && c == t.TenantColumn {
		return "", tenancy.ErrImmutableTenantAssignment
	}
	if !plainColumn.MatchString(c) {
		return "", fmt.Errorf("postgres: columna %q no válida en %s", column, t.Name)
	}
	return c, nil
}

// where añade los predicados unidos siempre con AND; cada uno va entre paréntesis
// para que un OR del llamador no pueda saltarse el filtro de tenant.
func where[B interface{ Where(any, ...any) B }](b B, conds []Cond) (B, error) {
	for _, c := range conds {
		if err := checkArgs(c.SQL, c.Args); err != nil {
			return b, err
		}
		b = b.Where("("+c.SQL+")", c.Args...)
	}
	return b, nil
}

func buildSelect(ctx context.Context, q Select) (string, []any, error) {
	if len(q.Columns) == 0 {
		return "", nil, errors.New("postgres: select sin columnas")
	}
	tables := []Table{q.From}
	for _, j := range q.Joins {
		tables = append(tables, j.Table)
	}
	sc, err := scopeFor(ctx, tables...)
	if err != nil {
		return "", nil, err
	}

	b := psql.Select(q.Columns...).From(q.From.ref())
	for _, j := range q.Joins {
		if err := checkArgs(j.On.SQL, j.On.Args); err != nil {
			return "", nil, err
		}
		clause := j.Table.ref() + " ON (" + j.On.SQL + ")"
		args := slices.Clone(j.On.Args)
		if p, ok := sc.predicate(j.Table); ok {
			clause += " AND " + p.SQL
			args = append(args, p.Args...)
		}
		if j.Left {
			b = b.LeftJoin(clause, args...)
		} else {
			b = b.Join(clause, args...)
		}
	}

	conds := make([]Cond, 0, len(q.Where)+1)
	conds = append(conds, q.Where...)
	if p, ok := sc.predicate(q.From); ok {
		conds = append(conds, p)
	}
	if b, err = where(b, conds); err != nil {
		return "", nil, err
	}
	if len(q.GroupBy) > 0 {
		b = b.GroupBy(q.GroupBy...)
	}
	if q.OrderBy != "" {
		b = b.OrderBy(q.OrderBy)
	}
	if q.Limit > 0 {
		b = b.Limit(uint64(q.Limit))
	}
	if q.Offset > 0 {
		b = b.Offset(uint64(q.Offset))
	}
	if q.ForUpdate {
		b = b.Suffix("FOR UPDATE")
	}
	return b.ToSql()
}

func buildUpdate(ctx context.Context, u Update) (string, []any, error) {
	if len(u.Set) == 0 {
		return "", nil, fmt.Errorf("postgres: update de %s sin columnas", u.Table.Name)
	}
	b := psql.Update(u.Table.ref())
	for _, a := range u.Set {
		col, err := columnName(u.Table, a.Column)
		if err != nil {
			return "", nil, err
		}
		if err := checkArgs(a.Expr, a.Args); err != nil {
			return "", nil, err
		}
		b = b.Set(col, sq.Expr(a.Expr, a.Args...))
	}
	sc, err := scopeFor(ctx, u.Table)
	if err != nil {
		return "", nil, err
	}

	conds := make([]Cond, 0, len(u.Where)+2)
	conds = append(conds, u.Where...)
	if u.Table.Owned() && u.Row != nil {
		claimed := u.Row.OwnerID()
		if sc.mode == tenancy.Enforced {
			// la fila solo puede pertenecer al tenant de la petición
			if err := tenancy.CheckReassignment(sc.tenant, claimed); err != nil {
				return "", nil, err
			}
		} else {
			if claimed.IsZero() {
				return "", nil, tenancy.ErrMissingTenantAssignment
			}
			conds = append(conds, Eq(u.Table.Col(u.Table.TenantColumn), claimed.String()))
		}
	}
	if p, ok := sc.predicate(u.Table); ok {
		conds = append(conds, p)
	}
	if b, err = where(b, conds); err != nil {
		return "", nil, err
	}
	return b.ToSql()
}

func buildDelete(ctx context.Context, d Delete) (string, []any, error) {
	sc, err := scopeFor(ctx, d.Table)
	if err != nil {
		return "", nil, err
	}
	conds := make([]Cond, 0, len(d.Where)+1)
	conds = append(conds, d.Where...)
	if p, ok := sc.predicate(d.Table); ok {
		conds = append(conds, p)
	}
	if len(conds) == 0 {
		return "", nil, fmt.Errorf("postgres: delete sin predicados en %s", d.Table.Name)
	}
	b, err := where(psql.Delete(d.Table.ref()), conds)
	if err != nil {
		return "", nil, err
	}
	return b.ToSql()
}

func buildInsert(ctx context.Context, in Insert) (string, []any, error) {
	if len(in.Columns) != len(in.Values) {
		return "", nil, fmt.Errorf("postgres: insert en %s con %d columnas y %d valores", in.Table.Name, len(in.Columns), len(in.Values))
	}
	cols := make([]string, 0, len(in.Columns)+1)
	for _, c := range in.Columns {
		col, err := columnName(in.Table, c)
		if err != nil {
			return "", nil, fmt.Errorf("postgres: insert en %s no admite la columna %q: %w", in.Table.Name, c, err)
		}
		cols = append(cols, col)
	}
	vals := slices.Clone(in.Values)
	if in.Table.Owned() {
		if in.Row == nil {
			return "", nil, fmt.Errorf("postgres: insert en %s sin fila con tenant", in.Table.Name)
		}
		if err := tenancy.Stamp(ctx, in.Row); err != nil {
			return "", nil, err
		}
		cols = append(cols, in.Table.TenantColumn)
		vals = append(vals, in.Row.OwnerID().String())
	}

	b := psql.Insert(in.Table.Name).Columns(cols...).Values(vals...)
	if in.Suffix != "" {
		b = b.Suffix(in.Suffix)
	}
	return b.ToSql()
}
