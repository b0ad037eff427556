package repository

import (
	"strings"

	"github.com/deppfellow/jobtracker/internal/model"
	sq "github.com/Masterminds/squirrel"
)

var jobApplicationColumns = []string{
	"id", "company", "position", "location", "status",
	"applied_date", "link", "notes", "created_at", "updated_at",
}

var jobApplicationReturning = "RETURNING " + strings.Join(jobApplicationColumns, ", ")

// sortColumns is the closed set of orderings Filter accepts.
var sortColumns = map[model.SortKey]string{
	model.SortByAppliedDate: "applied_date",
	model.SortByUpdatedAt:   "updated_at",
	model.SortByStatus:      "status",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern returns an ILIKE pattern matching s anywhere, with s's own
// wildcards taken literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// orderBy maps key and order to ORDER BY terms, breaking ties by id. An empty
// or unknown key orders by applied_date; an empty order is descending.
func orderBy(key model.SortKey, order model.SortOrder) []string {
	column, ok := sortColumns[key]
	if !ok {
		column = sortColumns[model.SortByAppliedDate]
	}

	direction := "DESC"
	if order == model.OrderAsc {
		direction = "ASC"
	}

	return []string{column + " " + direction, "id " + direction}
}

// buildJobApplicationFilter assembles the Filter query. Criteria groups are
// ANDed; the free-text search ORs across position, company and notes.
func buildJobApplicationFilter(f *model.JobApplicationFilter) (string, []any, error) {
	page := f.Page()

	q := psql.Select(jobApplicationColumns...).From("job_applications")

	if f.Company != "" {
		q = q.Where(sq.ILike{"company": containsPattern(f.Company)})
	}

	if f.Status != "" {
		q = q.Where(sq.Eq{"status": string(f.Status)})
	}

	if f.Search != "" {
		pattern := containsPattern(f.Search)
		q = q.Where(sq.Or{
			sq.ILike{"position": pattern},
			sq.ILike{"company": pattern},
			sq.ILike{"notes": pattern},
		})
	}

	return q.
		OrderBy(orderBy(f.SortBy, f.Order)...).
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Skip)).
		ToSql()
}

// buildJobApplicationUpdate assembles a merge-patch UPDATE touching only the
// fields present in in. updated_at is always bumped.
func buildJobApplicationUpdate(id int64, in *model.UpdateJobApplicationRequest, link *string) (string, []any, error) {
	set := map[string]any{
		"updated_at": sq.Expr("now()"),
	}

	if in.Company != nil {
		set["company"] = *in.Company
	}
	if in.Position != nil {
		set["position"] = *in.Position
	}
	if in.Location != nil {
		set["location"] = *in.Location
	}
	if in.Status != nil {
		set["status"] = string(*in.Status)
	}
	if in.AppliedDate != nil {
		set["applied_date"] = *in.AppliedDate
	}
	if link != nil {
		set["link"] = *link
	}
	if in.Notes != nil {
		set["notes"] = *in.Notes
	}

	return psql.Update("job_applications").
		SetMap(set).
		Where(sq.Eq{"id": id}).
		Suffix(jobApplicationReturning).
		ToSql()
}
