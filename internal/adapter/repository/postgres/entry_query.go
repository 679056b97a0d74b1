package postgres

import (
	"math"
	"strconv"
	"strings"

	"github.com/iho/fintrack/internal/domain"
)

const entryColumns = `e.id, e.description, e.month, e.year, e.user_id, u.name, u.email,
		e.amount, e.registered_on, e.kind, e.status`

const entryFrom = `entries e JOIN users u ON u.id = e.user_id`

// entryQuery accumulates conjunctive WHERE clauses with positional args.
type entryQuery struct {
	conds []string
	args  []any
}

func (q *entryQuery) where(cond string, arg any) {
	q.args = append(q.args, arg)
	q.conds = append(q.conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(q.args))))
}

// whereInt matches an INTEGER column. A value outside the int32 range can
// match no row.
func (q *entryQuery) whereInt(column string, v int) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		q.conds = append(q.conds, "FALSE")
		return
	}
	q.where(column+" = ?", int32(v))
}

func (q *entryQuery) sql() string {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(entryColumns)
	b.WriteString("\n\t\tFROM ")
	b.WriteString(entryFrom)
	if len(q.conds) > 0 {
		b.WriteString("\n\t\tWHERE ")
		b.WriteString(strings.Join(q.conds, " AND "))
	}
	b.WriteString("\n\t\tORDER BY e.year, e.month, e.registered_on, e.id")
	return b.String()
}

// buildEntrySearch turns every set filter field into a predicate. The
// description is matched as a case-insensitive prefix; everything else by
// equality.
func buildEntrySearch(f domain.EntryFilter) (string, []any) {
	q := &entryQuery{}

	if f.Description != nil {
		q.where(`e.description ILIKE ? ESCAPE '\'`, escapeLike(*f.Description)+"%")
	}
	if f.Month != nil {
		q.whereInt("e.month", *f.Month)
	}
	if f.Year != nil {
		q.whereInt("e.year", *f.Year)
	}
	if f.OwnerID != nil {
		q.where("e.user_id = ?", *f.OwnerID)
	}
	if f.Amount != nil {
		q.where("e.amount = ?", decimalToNumeric(*f.Amount))
	}
	if f.Kind != nil {
		q.where("e.kind = ?", f.Kind.String())
	}
	if f.Status != nil {
		q.where("e.status = ?", f.Status.String())
	}

	return q.sql(), q.args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
