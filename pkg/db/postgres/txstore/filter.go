package txstore

import (
	"fmt"
	"strings"

	"github.com/kraxel/txquery/pkg/db/models"
)

// whereBuilder accumulates predicates with positional placeholders.
type whereBuilder struct {
	conds []string
	args  []any
}

func (w *whereBuilder) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(cond, len(w.args)))
}

// sql returns "" when there is nothing to filter on, otherwise a WHERE clause.
func (w *whereBuilder) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.conds, " AND ")
}

// next returns the placeholder index following the accumulated args.
func (w *whereBuilder) next() int {
	return len(w.args) + 1
}

// likeContains builds a pattern matching s anywhere, with LIKE wildcards in s
// taken literally.
func likeContains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func transactionWhere(f models.TransactionFilter) *whereBuilder {
	w := &whereBuilder{}
	if f.Address != "" {
		w.add("t.sender_address = $%d", f.Address)
	}
	if f.Status != "" {
		w.add("t.status = $%d", f.Status)
	}
	if f.TxType != "" {
		w.add("t.tx_type = $%d", f.TxType)
	}
	if f.BlockHeight != nil {
		w.add("t.block_height = $%d", int64(*f.BlockHeight))
	}
	if f.MinHeight != nil {
		w.add("t.block_height >= $%d", int64(*f.MinHeight))
	}
	if f.MaxHeight != nil {
		w.add("t.block_height <= $%d", int64(*f.MaxHeight))
	}
	if f.FromTime != nil {
		w.add("t.block_time >= $%d", *f.FromTime)
	}
	if f.ToTime != nil {
		w.add("t.block_time <= $%d", *f.ToTime)
	}
	return w
}

func swapWhere(f models.SwapFilter) *whereBuilder {
	w := &whereBuilder{}
	if f.UserAddress != "" {
		w.add("user_address = $%d", f.UserAddress)
	}
	if f.Contract != "" {
		w.add("swap_details::text ILIKE $%d", likeContains(f.Contract))
	}
	if f.From != nil {
		w.add("CAST(block_time AS BIGINT) >= $%d", *f.From)
	}
	if f.To != nil {
		w.add("CAST(block_time AS BIGINT) <= $%d", *f.To)
	}
	return w
}
